package handler

import (
	"log/slog"
	"net/http"

	"lorehub/internal/httputil"
	"lorehub/internal/service/preferences"
)

// ThemeHandler reads and writes the session's highlight theme.
type ThemeHandler struct {
	prefs  *preferences.Service
	logger *slog.Logger
}

func NewThemeHandler(prefs *preferences.Service, logger *slog.Logger) *ThemeHandler {
	return &ThemeHandler{prefs: prefs, logger: logger}
}

type themePayload struct {
	Theme string `json:"theme"`
	Label string `json:"label"`
}

// Get returns the current theme.
// GET /api/theme
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	theme := h.prefs.Theme(r.Context(), httputil.GetSessionID(r.Context()))
	httputil.RespondData(w, themePayload{Theme: string(theme), Label: preferences.Labels[theme]})
}

// Set stores a theme choice from the closed set.
// PUT /api/theme
func (h *ThemeHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req themePayload
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sid := httputil.GetSessionID(r.Context())
	if err := h.prefs.SetTheme(r.Context(), sid, preferences.Theme(req.Theme)); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, themePayload{Theme: req.Theme, Label: preferences.Labels[preferences.Theme(req.Theme)]})
}

// Toggle cycles to the next theme.
// POST /api/theme/toggle
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sid := httputil.GetSessionID(r.Context())
	next, err := h.prefs.Toggle(r.Context(), sid)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, themePayload{Theme: string(next), Label: preferences.Labels[next]})
}

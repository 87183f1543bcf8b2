package handler

import (
	"log/slog"
	"net/http"
	"time"

	"lorehub/internal/account"
	"lorehub/internal/domain/models"
	"lorehub/internal/httputil"
	"lorehub/internal/middleware"
	"lorehub/internal/service/session"
)

// authCookieTTL matches the backend's token lifetime.
const authCookieTTL = 7 * 24 * time.Hour

// AccountHandler covers the login flow and profile operations.
type AccountHandler struct {
	client   *account.Client
	sessions *session.Store
	logger   *slog.Logger
}

func NewAccountHandler(client *account.Client, sessions *session.Store, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

// Captcha returns a fresh challenge for the login form.
// GET /api/captcha
func (h *AccountHandler) Captcha(w http.ResponseWriter, r *http.Request) {
	captcha, err := h.client.Captcha(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, captcha)
}

// Login exchanges credentials for a token and stores it in an httpOnly
// cookie. The token never reaches page scripts.
// POST /api/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.client.Login(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(authCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	sid := httputil.GetSessionID(r.Context())
	ctx := httputil.WithToken(r.Context(), token)
	info, err := h.sessions.FetchUserInfo(ctx, sid)
	if err != nil {
		// Token is set; the profile loads on the next page view.
		h.logger.Warn("profile fetch after login failed", "error", err)
		httputil.RespondData(w, nil)
		return
	}

	h.logger.Info("user logged in", "username", info.Username)
	httputil.RespondData(w, info)
}

// Logout clears the auth cookie and the session's cached profile.
// POST /api/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := httputil.GetSessionID(r.Context())
	h.sessions.Logout(sid)
	clearAuthCookie(w)
	httputil.RespondData(w, nil)
}

// UserInfo returns the current profile, fetching and caching it.
// GET /api/user/info
func (h *AccountHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	sid := httputil.GetSessionID(r.Context())
	info, err := h.sessions.FetchUserInfo(r.Context(), sid)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, info)
}

// UpdateUser applies a partial profile update and refreshes the cache.
// PUT /api/user/update
func (h *AccountHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	info, err := h.client.UpdateUser(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	// Re-fetch through the store so the avatar prefixing applies.
	sid := httputil.GetSessionID(r.Context())
	if fresh, err := h.sessions.FetchUserInfo(r.Context(), sid); err == nil {
		info = fresh
	}
	httputil.RespondData(w, info)
}

// Upload relays a single avatar image to the backend. Size and type
// are rejected locally before any bytes are forwarded.
// POST /api/upload/single
func (h *AccountHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(account.MaxUploadSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if err := account.ValidateUpload(header.Filename, header.Size); err != nil {
		handleError(w, err)
		return
	}

	uploaded, err := h.client.Upload(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondData(w, uploaded)
}

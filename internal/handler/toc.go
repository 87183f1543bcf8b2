package handler

import (
	"log/slog"
	"net/http"

	"lorehub/internal/httputil"
	"lorehub/internal/service/toc"
)

// TOCHandler resolves the active heading from observer reports, keeping
// the tie-break rule on the server where it is deterministic and
// testable.
type TOCHandler struct {
	logger *slog.Logger
}

func NewTOCHandler(logger *slog.Logger) *TOCHandler {
	return &TOCHandler{logger: logger}
}

type activeRequest struct {
	Entries []toc.Intersection `json:"entries"`
}

type activeResponse struct {
	Active string `json:"active"`
}

// Active returns the heading to highlight for a batch of intersection
// entries.
// POST /api/toc/active
func (h *TOCHandler) Active(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	httputil.RespondData(w, activeResponse{Active: toc.ActiveHeading(req.Entries)})
}

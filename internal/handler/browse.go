package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"lorehub/internal/domain/models"
	"lorehub/internal/httputil"
	"lorehub/internal/service/browse"
)

// BrowseHandler exposes the per-view browse state machines over JSON.
// Each action mutates the session's browser and returns a fresh
// snapshot, so the page script only ever re-renders from one payload.
type BrowseHandler struct {
	views  map[string]*browse.Manager
	logger *slog.Logger
}

func NewBrowseHandler(notes, gallery *browse.Manager, logger *slog.Logger) *BrowseHandler {
	return &BrowseHandler{
		views:  map[string]*browse.Manager{"notes": notes, "gallery": gallery},
		logger: logger,
	}
}

type browseRequest struct {
	Action   string                `json:"action"`
	Category string                `json:"category"`
	Node     models.FileSystemNode `json:"node"`
	Index    int                   `json:"index"`
	Page     int                   `json:"page"`
	Text     string                `json:"text"`
}

// Act dispatches one browse action.
// POST /api/browse/{view}
func (h *BrowseHandler) Act(w http.ResponseWriter, r *http.Request) {
	view := r.PathValue("view")
	mgr, ok := h.views[view]
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "unknown view")
		return
	}

	var req browseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b := mgr.Get(httputil.GetSessionID(r.Context()))
	ctx := r.Context()

	var err error
	switch req.Action {
	case "categories":
		_, err = b.LoadCategories(ctx)
	case "select":
		err = b.SelectCategory(ctx, req.Category)
	case "enter":
		err = b.EnterDirectory(ctx, req.Node)
	case "breadcrumb":
		err = b.NavigateBreadcrumb(ctx, req.Index)
	case "page":
		err = b.NextPage(ctx, req.Page)
	case "more":
		err = b.LoadMore(ctx)
	case "search":
		httputil.RespondData(w, b.Search(req.Text))
		return
	case "snapshot":
	default:
		httputil.RespondError(w, http.StatusBadRequest, "unknown action")
		return
	}

	if err != nil {
		if errors.Is(err, browse.ErrNotDirectory) {
			httputil.RespondError(w, http.StatusBadRequest, "not a directory")
			return
		}
		h.logger.Warn("browse action failed",
			"view", view,
			"action", req.Action,
			"error", err,
		)
		handleError(w, err)
		return
	}

	httputil.RespondData(w, b.Snapshot())
}

package handler

import (
	"errors"
	"net/http"

	"lorehub/internal/domain"
	"lorehub/internal/httputil"
	"lorehub/internal/middleware"
)

// handleError maps domain errors to envelope responses. An unauthorized
// failure also clears the auth cookie so the next page load lands on
// the login redirect instead of looping through 401s.
func handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUnauthorized) {
		clearAuthCookie(w)
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

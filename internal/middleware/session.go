package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"lorehub/internal/httputil"
)

const (
	// SessionCookie identifies the browsing session; it exists for both
	// anonymous and logged-in visitors.
	SessionCookie = "lorehub_session"

	// AuthCookie carries the backend-issued bearer token.
	AuthCookie = "auth_token"
)

// Session ensures every request carries a browsing-session cookie and
// puts the session ID plus any bearer token into the request context.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := sessionID(r)
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := httputil.WithSessionID(r.Context(), sid)
			if c, err := r.Cookie(AuthCookie); err == nil && c.Value != "" {
				ctx = httputil.WithToken(ctx, c.Value)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionID(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

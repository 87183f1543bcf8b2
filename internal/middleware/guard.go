package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"lorehub/internal/auth"
	"lorehub/internal/httputil"
)

// publicPaths are reachable without a token. Everything else under the
// page routes requires one.
var publicPaths = map[string]bool{
	"/":      true,
	"/login": true,
}

// Guard redirects unauthenticated visitors to the login page and keeps
// authenticated ones off it. Static assets and the JSON API are never
// guarded here; API handlers return 401 envelopes instead of redirects.
func Guard(inspector *auth.Inspector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			loggedIn := inspector.Valid(httputil.GetToken(r.Context()))

			if loggedIn && path == "/login" {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			if !loggedIn && !publicPaths[path] {
				target := "/login?redirect=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

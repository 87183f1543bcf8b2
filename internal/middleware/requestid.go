package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"lorehub/internal/httputil"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with a correlation ID, honoring one sent
// by the client.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, httputil.WithRequestID(r, id))
		})
	}
}

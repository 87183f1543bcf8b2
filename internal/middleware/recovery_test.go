package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lorehub/internal/httputil"
)

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	var logged bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logged, nil))

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	// Same nesting as the server chain: RequestID outside Recovery, so
	// the panic log can carry the correlation id.
	wrapped := RequestID()(Recovery(logger)(next))

	r := httptest.NewRequest(http.MethodGet, "/notes", nil)
	r.Header.Set(requestIDHeader, "rid-123")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var env httputil.Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Code != http.StatusInternalServerError {
		t.Errorf("envelope code = %d, want 500", env.Code)
	}

	if !strings.Contains(logged.String(), "rid-123") {
		t.Error("panic log missing the request id")
	}
}

func TestRecoveryPassthrough(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := Recovery(logger)(next)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}

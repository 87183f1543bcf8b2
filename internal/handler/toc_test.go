package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTOCActive(t *testing.T) {
	h := NewTOCHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "nearest top wins",
			body: `{"entries":[
				{"id":"heading-0","top":300,"intersecting":true},
				{"id":"heading-1","top":90,"intersecting":true}
			]}`,
			want: "heading-1",
		},
		{
			name: "nothing intersecting",
			body: `{"entries":[{"id":"heading-0","top":10,"intersecting":false}]}`,
			want: "",
		},
		{
			name: "empty entries",
			body: `{"entries":[]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/toc/active", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Active(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var env struct {
				Code int `json:"code"`
				Data struct {
					Active string `json:"active"`
				} `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Data.Active != tt.want {
				t.Errorf("active = %q, want %q", env.Data.Active, tt.want)
			}
		})
	}
}

func TestTOCActiveRejectsBadBody(t *testing.T) {
	h := NewTOCHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := httptest.NewRequest(http.MethodPost, "/api/toc/active", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Active(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

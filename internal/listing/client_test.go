package listing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"lorehub/internal/backend"
	"lorehub/internal/domain"
	"lorehub/internal/httputil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func envelope(code int, data any, msg string) []byte {
	payload, _ := json.Marshal(map[string]any{"code": code, "data": data, "msg": msg})
	return payload
}

func TestListDecodesPage(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fs/list" {
			t.Errorf("path = %s, want /fs/list", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Write(envelope(200, map[string]any{
			"content": []map[string]any{
				{"name": "a.md", "path": "/notes/a.md", "is_dir": false},
				{"name": "sub", "path": "/notes/sub", "is_dir": true},
			},
			"total": 12,
		}, "success"))
	}))
	defer srv.Close()

	c := NewClient(backend.NewCaller(srv.URL, testLogger()), "/fs", testLogger())

	page, err := c.List(context.Background(), "/notes/", 2, 9)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if page.Total != 12 {
		t.Errorf("total = %d, want 12", page.Total)
	}
	if len(page.Content) != 2 {
		t.Fatalf("content = %d items, want 2", len(page.Content))
	}
	if !page.Content[1].IsDir {
		t.Error("is_dir not decoded")
	}

	if gotBody["path"] != "/notes/" || gotBody["page"] != float64(2) || gotBody["per_page"] != float64(9) {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestRequestHeadersAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			t.Error("missing X-Requested-With header")
		}
		if r.Header.Get("X-Client") != "web" {
			t.Error("missing X-Client header")
		}
		if r.Header.Get("X-Timestamp") == "" {
			t.Error("missing X-Timestamp header")
		}
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		w.Write(envelope(200, []any{}, "success"))
	}))
	defer srv.Close()

	c := NewClient(backend.NewCaller(srv.URL, testLogger()), "/fs", testLogger())

	ctx := httputil.WithToken(context.Background(), "tok-123")
	if _, err := c.Dirs(ctx, "/notes/"); err != nil {
		t.Fatalf("Dirs: %v", err)
	}
}

func TestBusinessFailureSurfacesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope(500, nil, "object not found"))
	}))
	defer srv.Close()

	c := NewClient(backend.NewCaller(srv.URL, testLogger()), "/fs", testLogger())

	_, err := c.List(context.Background(), "/gone/", 1, 9)
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream.Code != 500 || upstream.Message != "object not found" {
		t.Errorf("upstream = %+v", upstream)
	}
}

func TestHTTPUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(backend.NewCaller(srv.URL, testLogger()), "/fs", testLogger())

	_, err := c.Get(context.Background(), "/notes/a.md")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestBusinessUnauthorizedMatchesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope(401, nil, "token expired"))
	}))
	defer srv.Close()

	c := NewClient(backend.NewCaller(srv.URL, testLogger()), "/fs", testLogger())

	_, err := c.Get(context.Background(), "/notes/a.md")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized via business code", err)
	}
}

func TestConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(backend.NewCaller(srv.URL, testLogger()), "/fs", testLogger())

	_, err := c.Dirs(context.Background(), "/notes/")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestContentFollowsRawURL(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fs/get":
			w.Write(envelope(200, map[string]any{
				"name":    "a.md",
				"path":    "/notes/a.md",
				"raw_url": srv.URL + "/raw/a.md",
			}, "success"))
		case "/raw/a.md":
			w.Write([]byte("# Title\nbody"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(backend.NewCaller(srv.URL, testLogger()), "/fs", testLogger())

	detail, raw, err := c.Content(context.Background(), "/notes/a.md")
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if detail.Name != "a.md" {
		t.Errorf("name = %q", detail.Name)
	}
	if string(raw) != "# Title\nbody" {
		t.Errorf("raw = %q", raw)
	}
}

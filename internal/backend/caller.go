// Package backend implements the round trip against the external API
// backend: every operation is a request/response exchange of
// {code, data, msg} envelopes, with code 200 signaling success.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"lorehub/internal/domain"
	"lorehub/internal/httputil"
)

const requestTimeout = 30 * time.Second

// envelope mirrors httputil.Envelope but defers data decoding so the
// caller can unmarshal into a concrete type. A non-200 code means the
// data field must not be trusted, even if present.
type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}

// Caller issues envelope-decoded calls against one backend base URL.
// The bearer token travels in the request context; no retries are
// performed and failures surface immediately.
type Caller struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewCaller(baseURL string, logger *slog.Logger) *Caller {
	return &Caller{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// BaseURL returns the backend root, for callers that build their own
// request bodies (multipart upload).
func (c *Caller) BaseURL() string { return c.baseURL }

// Post issues a JSON POST and decodes the envelope data into out.
// Pass a nil out to discard the data field.
func (c *Caller) Post(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return &domain.TransportError{Op: "encode " + path, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return &domain.TransportError{Op: "build " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// Get issues a GET and decodes the envelope data into out.
func (c *Caller) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &domain.TransportError{Op: "build " + path, Err: err}
	}
	return c.do(req, out)
}

// Put issues a JSON PUT and decodes the envelope data into out.
func (c *Caller) Put(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return &domain.TransportError{Op: "encode " + path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, &buf)
	if err != nil {
		return &domain.TransportError{Op: "build " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// Do executes a prepared request through the shared header/envelope
// handling. Used by the upload path, which builds its own multipart body.
func (c *Caller) Do(req *http.Request, out any) error {
	return c.do(req, out)
}

func (c *Caller) do(req *http.Request, out any) error {
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Client", "web")
	req.Header.Set("X-Timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	if token := httputil.GetToken(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return domain.ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 400:
		return &domain.TransportError{
			Op:  req.Method + " " + req.URL.Path,
			Err: fmt.Errorf("http status %d", resp.StatusCode),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &domain.TransportError{Op: "decode " + req.URL.Path, Err: err}
	}

	if env.Code != http.StatusOK {
		c.logger.Debug("backend business failure",
			"path", req.URL.Path,
			"code", env.Code,
			"msg", env.Msg,
		)
		return &domain.UpstreamError{Code: env.Code, Message: env.Msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &domain.TransportError{Op: "decode data " + req.URL.Path, Err: err}
		}
	}
	return nil
}

// FetchRaw retrieves the body of an absolute URL, used for the direct
// content download that follows a get call. Not envelope-wrapped.
func (c *Caller) FetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: "build raw fetch", Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "raw fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.TransportError{
			Op:  "raw fetch",
			Err: fmt.Errorf("http status %d", resp.StatusCode),
		}
	}

	return io.ReadAll(resp.Body)
}

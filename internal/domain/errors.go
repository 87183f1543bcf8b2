package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("service unavailable")
)

// UpstreamError is a business failure reported by the backend inside a
// 200 response: the envelope arrived, but its code field was not 200.
// Callers must not assume partial data validity when this is returned.
type UpstreamError struct {
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend code %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend code %d", e.Code)
}

// StatusCode maps the backend business code onto the closest HTTP status.
func (e *UpstreamError) StatusCode() int {
	switch e.Code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound:
		return e.Code
	default:
		return http.StatusBadGateway
	}
}

// Is lets errors.Is match a 401 business code against ErrUnauthorized,
// so the forced-logout path treats both failure layers uniformly.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// TransportError indicates no usable response was received at all
// (connection failure, timeout, malformed envelope).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) StatusCode() int { return http.StatusServiceUnavailable }

func (e *TransportError) Is(target error) bool { return target == ErrUnavailable }

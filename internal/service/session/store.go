// Package session caches the logged-in user's profile per browsing
// session and reconciles that cache against the presence of the auth
// token on each page load.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"lorehub/internal/domain/models"
)

// API is the slice of the account client the store needs.
type API interface {
	UserInfo(ctx context.Context) (*models.UserInfo, error)
}

// Store holds cached profiles keyed by session ID. The bearer token
// stays in the cookie; the cache only avoids refetching the profile on
// every render.
type Store struct {
	api        API
	staticBase string
	logger     *slog.Logger

	mu    sync.RWMutex
	users map[string]*models.UserInfo
}

func NewStore(api API, staticBase string, logger *slog.Logger) *Store {
	return &Store{
		api:        api,
		staticBase: staticBase,
		logger:     logger,
		users:      make(map[string]*models.UserInfo),
	}
}

// Current returns the cached profile, or nil when the session has none.
func (s *Store) Current(sessionID string) *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[sessionID]
}

// FetchUserInfo loads the profile for the token in ctx and caches it.
// Relative avatar paths are resolved against the static file base so
// templates can embed them directly.
func (s *Store) FetchUserInfo(ctx context.Context, sessionID string) (*models.UserInfo, error) {
	info, err := s.api.UserInfo(ctx)
	if err != nil {
		return nil, err
	}

	if info.Avatar != "" && !strings.HasPrefix(info.Avatar, "http") {
		info.Avatar = s.staticBase + info.Avatar
	}

	s.mu.Lock()
	s.users[sessionID] = info
	s.mu.Unlock()

	return info, nil
}

// Logout drops the cached profile. The cookie is cleared by the caller.
func (s *Store) Logout(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, sessionID)
}

// CheckLoginStatus reconciles the cache with the token: a token without
// a cached profile triggers a fetch, a cached profile without a token is
// stale and gets dropped. Returns the profile to render with, which may
// be nil for anonymous sessions.
func (s *Store) CheckLoginStatus(ctx context.Context, sessionID string, hasToken bool) *models.UserInfo {
	cached := s.Current(sessionID)

	switch {
	case hasToken && cached == nil:
		info, err := s.FetchUserInfo(ctx, sessionID)
		if err != nil {
			s.logger.Warn("login status check failed", "error", err)
			return nil
		}
		return info
	case !hasToken && cached != nil:
		s.Logout(sessionID)
		return nil
	default:
		return cached
	}
}

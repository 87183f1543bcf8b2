// Package preferences holds the per-session theme preference behind an
// injected key-value store, constructed once at application start and
// passed by reference to consumers.
package preferences

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lorehub/internal/domain"
)

// Theme identifies one of the supported syntax-highlighting themes.
type Theme string

const (
	GithubLight Theme = "github-light"
	GithubDark  Theme = "github-dark"
	OneLight    Theme = "one-light"
	OneDark     Theme = "one-dark"
	Dracula     Theme = "dracula"
	Nord        Theme = "nord"
)

const DefaultTheme = GithubLight

// Themes is the closed set, in toggle-cycle order.
var Themes = []Theme{GithubLight, GithubDark, OneLight, OneDark, Dracula, Nord}

// Labels maps themes to their display names.
var Labels = map[Theme]string{
	GithubLight: "GitHub Light",
	GithubDark:  "GitHub Dark",
	OneLight:    "One Light",
	OneDark:     "One Dark",
	Dracula:     "Dracula",
	Nord:        "Nord",
}

// Store is the persistence adapter behind the theme preference.
type Store interface {
	// Get returns the stored theme for a session, or "" when none is set.
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, theme string) error
}

// Service validates and persists theme choices.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Theme returns the session's theme, falling back to the default on a
// miss, a store failure, or a stored value outside the closed set (a
// broken store must not break rendering, and a stale value must not
// leak into templates).
func (s *Service) Theme(ctx context.Context, sessionID string) Theme {
	stored, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn("theme lookup failed, using default", "error", err)
		return DefaultTheme
	}
	if stored == "" {
		return DefaultTheme
	}
	theme := Theme(stored)
	if err := validateTheme(theme); err != nil {
		s.logger.Warn("stored theme not recognized, using default", "theme", stored)
		return DefaultTheme
	}
	return theme
}

// SetTheme persists a theme choice. Values outside the closed set are
// rejected; re-setting the current theme is a no-op write-wise.
func (s *Service) SetTheme(ctx context.Context, sessionID string, theme Theme) error {
	if err := validateTheme(theme); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	current, err := s.store.Get(ctx, sessionID)
	if err == nil && Theme(current) == theme {
		return nil
	}

	if err := s.store.Set(ctx, sessionID, string(theme)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}

	s.logger.Debug("theme updated", "session", sessionID, "theme", theme)
	return nil
}

// Toggle cycles to the next theme in the set and persists it.
func (s *Service) Toggle(ctx context.Context, sessionID string) (Theme, error) {
	current := s.Theme(ctx, sessionID)

	next := Themes[0]
	for i, t := range Themes {
		if t == current {
			next = Themes[(i+1)%len(Themes)]
			break
		}
	}

	if err := s.SetTheme(ctx, sessionID, next); err != nil {
		return current, err
	}
	return next, nil
}

func validateTheme(theme Theme) error {
	choices := make([]any, len(Themes))
	for i, t := range Themes {
		choices[i] = t
	}
	return validation.Validate(theme, validation.Required, validation.In(choices...))
}

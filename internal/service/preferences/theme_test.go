package preferences

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"lorehub/internal/domain"
)

// countingStore records writes so tests can assert idempotence.
type countingStore struct {
	themes map[string]string
	writes int
	getErr error
	setErr error
}

func newCountingStore() *countingStore {
	return &countingStore{themes: make(map[string]string)}
}

func (c *countingStore) Get(_ context.Context, sessionID string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.themes[sessionID], nil
}

func (c *countingStore) Set(_ context.Context, sessionID, theme string) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.writes++
	c.themes[sessionID] = theme
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestThemeDefaults(t *testing.T) {
	store := newCountingStore()
	svc := NewService(store, testLogger())

	if got := svc.Theme(context.Background(), "s1"); got != DefaultTheme {
		t.Errorf("theme = %q, want default", got)
	}

	store.getErr = errors.New("store down")
	if got := svc.Theme(context.Background(), "s1"); got != DefaultTheme {
		t.Errorf("theme on store failure = %q, want default", got)
	}
}

func TestThemeIgnoresUnknownStoredValue(t *testing.T) {
	store := newCountingStore()
	store.themes["s1"] = "solarized"
	svc := NewService(store, testLogger())

	if got := svc.Theme(context.Background(), "s1"); got != DefaultTheme {
		t.Errorf("theme = %q, want default for an unrecognized stored value", got)
	}
}

func TestSetTheme(t *testing.T) {
	store := newCountingStore()
	svc := NewService(store, testLogger())
	ctx := context.Background()

	if err := svc.SetTheme(ctx, "s1", Dracula); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if got := svc.Theme(ctx, "s1"); got != Dracula {
		t.Errorf("theme = %q, want dracula", got)
	}
	if store.writes != 1 {
		t.Errorf("writes = %d, want 1", store.writes)
	}

	// Re-setting the same theme issues no write.
	if err := svc.SetTheme(ctx, "s1", Dracula); err != nil {
		t.Fatalf("SetTheme repeat: %v", err)
	}
	if store.writes != 1 {
		t.Errorf("writes after repeat = %d, want 1", store.writes)
	}
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	tests := []struct {
		name  string
		theme Theme
	}{
		{"empty", Theme("")},
		{"arbitrary", Theme("solarized")},
		{"near miss", Theme("github-Light")},
	}

	store := newCountingStore()
	svc := NewService(store, testLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetTheme(context.Background(), "s1", tt.theme)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
	if store.writes != 0 {
		t.Errorf("writes = %d, want 0", store.writes)
	}
}

func TestToggleCyclesFullSet(t *testing.T) {
	store := newCountingStore()
	svc := NewService(store, testLogger())
	ctx := context.Background()

	seen := make(map[Theme]bool)
	for range Themes {
		next, err := svc.Toggle(ctx, "s1")
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		seen[next] = true
	}

	if len(seen) != len(Themes) {
		t.Errorf("cycle visited %d themes, want %d", len(seen), len(Themes))
	}
	if got := svc.Theme(ctx, "s1"); got != DefaultTheme {
		t.Errorf("after full cycle theme = %q, want back at default", got)
	}
}

func TestMemoryStoreIsolatesSessions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "a", string(Nord)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, "b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Errorf("session b theme = %q, want empty", got)
	}
}

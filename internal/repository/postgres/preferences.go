package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferencesStore is the Postgres implementation of the preference
// key-value adapter, one row per browsing session.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS session_preferences (
//	    session_id TEXT PRIMARY KEY,
//	    theme      TEXT NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type PreferencesStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPreferencesStore(pool *pgxpool.Pool, logger *slog.Logger) *PreferencesStore {
	return &PreferencesStore{pool: pool, logger: logger}
}

// Get returns the stored theme, or "" when the session has none yet.
func (s *PreferencesStore) Get(ctx context.Context, sessionID string) (string, error) {
	var theme string
	err := s.pool.QueryRow(ctx,
		`SELECT theme FROM session_preferences WHERE session_id = $1`,
		sessionID,
	).Scan(&theme)

	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("get session preferences: %w", err)
	}
	return theme, nil
}

// Set upserts the session's theme.
func (s *PreferencesStore) Set(ctx context.Context, sessionID, theme string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO session_preferences (session_id, theme, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			updated_at = EXCLUDED.updated_at
	`, sessionID, theme, time.Now())

	if err != nil {
		return fmt.Errorf("upsert session preferences: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Tushar-Jain07/portfolio/internal/theme"
)

// LoadTheme returns the saved theme for a visitor.
func (s *DB) LoadTheme(ctx context.Context, visitorID string) (theme.Theme, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT theme FROM preferences WHERE visitor_id = ?`, visitorID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select preference: %w", err)
	}
	t, ok := theme.Parse(raw)
	return t, ok, nil
}

// SaveTheme upserts the visitor's theme.
func (s *DB) SaveTheme(ctx context.Context, visitorID string, t theme.Theme) error {
	if _, ok := theme.Parse(string(t)); !ok {
		return theme.ErrInvalidTheme
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, theme, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(visitor_id) DO UPDATE SET theme = excluded.theme, updated_at = excluded.updated_at
	`, visitorID, string(t), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// Counts returns how many visitors saved each theme.
func (s *DB) Counts(ctx context.Context) (map[theme.Theme]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT theme, COUNT(*) FROM preferences GROUP BY theme`)
	if err != nil {
		return nil, fmt.Errorf("count preferences: %w", err)
	}
	defer rows.Close()

	out := map[theme.Theme]int64{theme.Dark: 0, theme.Light: 0}
	for rows.Next() {
		var (
			raw string
			n   int64
		)
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, fmt.Errorf("scan preference count: %w", err)
		}
		if t, ok := theme.Parse(raw); ok {
			out[t] = n
		}
	}
	return out, rows.Err()
}

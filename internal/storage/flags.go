package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/finsense/internal/model"
)

// GetSessionFlags returns the persisted session flags.
func (s *SQLiteStorage) GetSessionFlags(ctx context.Context) (model.SessionFlags, error) {
	if err := validateContext(ctx); err != nil {
		return model.SessionFlags{}, err
	}

	var flags model.SessionFlags
	err := s.db.QueryRowContext(ctx,
		`SELECT review_completed, banner_shown FROM session_flags WHERE id = 1`,
	).Scan(&flags.ReviewCompleted, &flags.BannerShown)
	if err != nil {
		return model.SessionFlags{}, fmt.Errorf("failed to read session flags: %w", err)
	}
	return flags, nil
}

// SaveSessionFlags overwrites the session flags.
func (s *SQLiteStorage) SaveSessionFlags(ctx context.Context, flags model.SessionFlags) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_flags (id, review_completed, banner_shown, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			review_completed = excluded.review_completed,
			banner_shown = excluded.banner_shown,
			updated_at = excluded.updated_at`,
		flags.ReviewCompleted, flags.BannerShown, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save session flags: %w", err)
	}
	return nil
}

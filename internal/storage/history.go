package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finsense/internal/model"
)

func insertEvents(ctx context.Context, tx *sql.Tx, events []model.DecisionEvent) error {
	if len(events) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decision_history
		(transaction_id, action, from_status, to_status, from_category, to_category, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare history statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Warn("failed to close statement", "error", closeErr)
		}
	}()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx,
			ev.TransactionID,
			string(ev.Action),
			string(ev.FromStatus),
			string(ev.ToStatus),
			ev.FromCategory,
			ev.ToCategory,
			string(ev.Source),
			ev.At.UTC(),
		); err != nil {
			return fmt.Errorf("failed to record %s for %s: %w", ev.Action, ev.TransactionID, err)
		}
	}
	return nil
}

// GetHistory returns the decision trail of a transaction, oldest first.
func (s *SQLiteStorage) GetHistory(ctx context.Context, transactionID string) ([]model.DecisionEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_id, action, from_status, to_status, from_category, to_category, source, created_at
		FROM decision_history
		WHERE transaction_id = ?
		ORDER BY id`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var events []model.DecisionEvent
	for rows.Next() {
		var (
			ev                   model.DecisionEvent
			action, source       string
			fromStatus, toStatus string
		)
		if err := rows.Scan(&ev.ID, &ev.TransactionID, &action, &fromStatus, &toStatus,
			&ev.FromCategory, &ev.ToCategory, &source, &ev.At); err != nil {
			return nil, fmt.Errorf("failed to scan decision event: %w", err)
		}
		ev.Action = model.Action(action)
		ev.FromStatus = model.Status(fromStatus)
		ev.ToStatus = model.Status(toStatus)
		ev.Source = model.DecisionSource(source)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decision history: %w", err)
	}

	return events, nil
}

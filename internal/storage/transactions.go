package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `id, date, vendor, amount, category, confidence, status, explanation,
	decision_source, payment_method, original_description,
	original_category, original_confidence, original_source, created_at, updated_at`

// LoadLedger returns the stored transaction set in insertion order.
func (s *SQLiteStorage) LoadLedger(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+ledgerColumns+` FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("loaded ledger from database", "count", len(txns))
	return txns, nil
}

// SaveLedger replaces the stored set and appends the snapshot's events in a
// single database transaction.
func (s *SQLiteStorage) SaveLedger(ctx context.Context, snap model.Snapshot) (err error) {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range snap.Transactions {
		if err := validateTransaction(&snap.Transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("failed to rollback ledger write", "error", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (position, `+ledgerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Warn("failed to close statement", "error", closeErr)
		}
	}()

	for i, txn := range snap.Transactions {
		_, err = stmt.ExecContext(ctx,
			i,
			txn.ID,
			txn.Date.Format(model.DateLayout),
			txn.Vendor,
			txn.Amount.String(),
			txn.Category,
			txn.Confidence,
			string(txn.Status),
			txn.Explanation,
			string(txn.DecisionSource),
			txn.PaymentMethod,
			txn.OriginalDescription,
			txn.Original.Category,
			txn.Original.Confidence,
			string(txn.Original.Source),
			txn.CreatedAt.UTC(),
			txn.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	if err = insertEvents(ctx, tx, snap.Events); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger: %w", err)
	}

	slog.Debug("saved ledger", "transactions", len(snap.Transactions), "events", len(snap.Events))
	return nil
}

// ClearHistory removes every decision history entry.
func (s *SQLiteStorage) ClearHistory(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM decision_history`); err != nil {
		return fmt.Errorf("failed to clear decision history: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		txn                  model.Transaction
		date, amount         string
		status, source       string
		originalSource       string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&txn.ID,
		&date,
		&txn.Vendor,
		&amount,
		&txn.Category,
		&txn.Confidence,
		&status,
		&txn.Explanation,
		&source,
		&txn.PaymentMethod,
		&txn.OriginalDescription,
		&txn.Original.Category,
		&txn.Original.Confidence,
		&originalSource,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Transaction{}, err
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Date, err = time.Parse(model.DateLayout, date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %s has date %q", ErrInvalidTransaction, txn.ID, date)
	}
	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %s has amount %q", ErrInvalidTransaction, txn.ID, amount)
	}

	txn.Status = model.Status(status)
	txn.DecisionSource = model.DecisionSource(source)
	txn.Original.Source = model.DecisionSource(originalSource)
	txn.CreatedAt = createdAt
	txn.UpdatedAt = updatedAt
	return txn, nil
}

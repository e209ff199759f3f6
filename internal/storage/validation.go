// Package storage provides the SQLite persistence layer for finsense.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/finsense/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidPath        = errors.New("invalid path")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCategory    = errors.New("invalid category")
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction checks the fields the ledger schema depends on.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: %s missing date", ErrInvalidTransaction, txn.ID)
	}
	if strings.TrimSpace(txn.Vendor) == "" {
		return fmt.Errorf("%w: %s missing vendor", ErrInvalidTransaction, txn.ID)
	}
	if !txn.Status.Valid() {
		return fmt.Errorf("%w: %s has %q", ErrInvalidStatus, txn.ID, txn.Status)
	}
	if !txn.DecisionSource.Valid() {
		return fmt.Errorf("%w: %s has decision source %q", ErrInvalidTransaction, txn.ID, txn.DecisionSource)
	}
	if txn.Confidence < 0 || txn.Confidence > 1 {
		return fmt.Errorf("%w: %s confidence must be between 0 and 1", ErrInvalidTransaction, txn.ID)
	}
	return nil
}

// validateCategory checks a category before it is written.
func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if err := validateString(cat.Name, "category name"); err != nil {
		return err
	}
	if cat.Type != "" && !cat.Type.Valid() {
		return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidCategory, cat.Name, cat.Type)
	}
	if cat.Color != "" && !colorPattern.MatchString(cat.Color) {
		return fmt.Errorf("%w: %s color %q is not #RRGGBB", ErrInvalidCategory, cat.Name, cat.Color)
	}
	return nil
}

// Package pattern classifies statement lines with deterministic merchant
// and amount rules.
package pattern

import (
	"context"

	"github.com/Veraticus/finsense/internal/model"
)

// Matcher evaluates statement lines against pattern rules.
type Matcher interface {
	// Match returns the active rules matching line, highest priority first.
	Match(ctx context.Context, line model.StatementLine) ([]Rule, error)
}

// CategoryRegistry resolves category names.
type CategoryRegistry interface {
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
}

// Rule is an alias to the model.PatternRule type for convenience.
type Rule = model.PatternRule

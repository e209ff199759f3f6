package engine

import (
	"context"

	"github.com/Veraticus/finsense/internal/model"
)

// Store persists the transaction set. SaveLedger must replace the stored
// set atomically: after a failed call the previous set is still intact.
type Store interface {
	LoadLedger(ctx context.Context) ([]model.Transaction, error)
	SaveLedger(ctx context.Context, snapshot model.Snapshot) error
}

// CategoryRegistry resolves category names. GetCategoryByName returns
// (nil, nil) when the category does not exist.
type CategoryRegistry interface {
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
}

// IDGenerator produces identifiers for ingested transactions that arrive
// without one.
type IDGenerator interface {
	Generate() string
}

// Observer is notified after every mutation attempt.
type Observer interface {
	ObserveDecision(action model.Action, err error)
	ObserveCounts(counts model.StatusCounts)
}

// Package session manages the review session flags that sit beside the
// ledger: whether the user has declared the queue done and whether the
// completion banner was shown.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/model"
)

// Store persists session flags.
type Store interface {
	GetSessionFlags(ctx context.Context) (model.SessionFlags, error)
	SaveSessionFlags(ctx context.Context, flags model.SessionFlags) error
}

// Counter reports the current status partition.
type Counter interface {
	CountByStatus(ctx context.Context) model.StatusCounts
}

// Manager guards the flags against the ledger state.
type Manager struct {
	store   Store
	counter Counter
}

// NewManager creates a Manager.
func NewManager(store Store, counter Counter) *Manager {
	return &Manager{store: store, counter: counter}
}

// Get returns the current flags. A completed review is reopened, and the
// change saved, once later ingests leave transactions needing review again.
func (m *Manager) Get(ctx context.Context) (model.SessionFlags, error) {
	flags, err := m.store.GetSessionFlags(ctx)
	if err != nil {
		return model.SessionFlags{}, err
	}
	if flags.ReviewCompleted && m.counter.CountByStatus(ctx).NeedsReview > 0 {
		flags.ReviewCompleted = false
		if err := m.store.SaveSessionFlags(ctx, flags); err != nil {
			return model.SessionFlags{}, fmt.Errorf("failed to reopen review: %w", err)
		}
		slog.Info("reopened review", "reason", "transactions need review")
	}
	return flags, nil
}

// Update stores flags. Marking the review completed is refused while any
// transaction still needs review.
func (m *Manager) Update(ctx context.Context, flags model.SessionFlags) error {
	if flags.ReviewCompleted {
		if pending := m.counter.CountByStatus(ctx).NeedsReview; pending > 0 {
			return fmt.Errorf("%w: %d pending", common.ErrReviewIncomplete, pending)
		}
	}
	return m.store.SaveSessionFlags(ctx, flags)
}

// Complete marks the review done and returns the updated flags.
func (m *Manager) Complete(ctx context.Context) (model.SessionFlags, error) {
	flags, err := m.store.GetSessionFlags(ctx)
	if err != nil {
		return model.SessionFlags{}, err
	}
	flags.ReviewCompleted = true
	if err := m.Update(ctx, flags); err != nil {
		return model.SessionFlags{}, err
	}
	return flags, nil
}

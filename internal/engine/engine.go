// Package engine implements the decision workflow for classified transactions.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/model"
)

// Engine owns the transaction set and applies the review policy to it.
// Every mutation is persisted through the Store before it becomes visible.
type Engine struct {
	store    Store
	registry CategoryRegistry
	ids      IDGenerator
	observer Observer
	now      func() time.Time
	index    map[string]int
	txns     []model.Transaction
	policy   Policy
	mu       sync.RWMutex
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPolicy overrides the default thresholds.
func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithIDGenerator overrides ULID generation.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithObserver registers an observer for mutations.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New loads the current transaction set from store and returns an engine
// serving it.
func New(ctx context.Context, store Store, registry CategoryRegistry, opts ...Option) (*Engine, error) {
	if store == nil || registry == nil {
		return nil, fmt.Errorf("%w: engine requires a store and a category registry", common.ErrMissingConfig)
	}

	e := &Engine{
		store:    store,
		registry: registry,
		ids:      NewULIDGenerator(),
		now:      time.Now,
		policy:   DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.policy.Validate(); err != nil {
		return nil, err
	}

	txns, err := store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	index := make(map[string]int, len(txns))
	for i, txn := range txns {
		if _, dup := index[txn.ID]; dup {
			return nil, fmt.Errorf("%w: transaction %s stored twice", common.ErrDuplicateEntry, txn.ID)
		}
		if !ValidConfidence(txn.Confidence) {
			return nil, fmt.Errorf("%w: transaction %s has confidence %v", common.ErrInvalidConfidence, txn.ID, txn.Confidence)
		}
		index[txn.ID] = i
	}

	e.txns = txns
	e.index = index
	if e.observer != nil {
		e.observer.ObserveCounts(countLocked(txns))
	}

	slog.Debug("loaded ledger", "transactions", len(txns))
	return e, nil
}

// Policy returns the active review policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Ingest adds a freshly classified transaction and assigns its initial status.
func (e *Engine) Ingest(ctx context.Context, in model.Classified) (model.Transaction, error) {
	created, err := e.IngestBatch(ctx, []model.Classified{in})
	if err != nil {
		return model.Transaction{}, err
	}
	return created[0], nil
}

// IngestBatch adds several classified transactions with a single write.
// Either all of them are added or none.
func (e *Engine) IngestBatch(ctx context.Context, batch []model.Classified) ([]model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	created, err := e.ingestLocked(ctx, batch)
	e.observe(model.ActionIngest, err)
	return created, err
}

func (e *Engine) ingestLocked(ctx context.Context, batch []model.Classified) ([]model.Transaction, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: empty batch", common.ErrInvalidInput)
	}

	now := e.now()
	seen := make(map[string]bool, len(batch))
	created := make([]model.Transaction, 0, len(batch))
	events := make([]model.DecisionEvent, 0, len(batch))

	for i, in := range batch {
		if err := validateClassified(in); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		cat, err := e.lookupCategory(ctx, in.Category)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = e.ids.Generate()
		}
		if _, exists := e.index[id]; exists || seen[id] {
			return nil, fmt.Errorf("item %d: %w: transaction %s", i, common.ErrDuplicateEntry, id)
		}
		seen[id] = true

		source := in.Source
		if source == "" {
			source = model.SourceModel
		}

		status := e.policy.Assign(in.Confidence, cat.HighImpact)
		txn := model.Transaction{
			ID:                  id,
			Date:                calendarDate(in.Date),
			Vendor:              strings.TrimSpace(in.Vendor),
			Amount:              in.Amount,
			Category:            cat.Name,
			Confidence:          in.Confidence,
			Status:              status,
			Explanation:         in.Explanation,
			DecisionSource:      source,
			PaymentMethod:       in.PaymentMethod,
			OriginalDescription: in.OriginalDescription,
			Original: model.Classification{
				Category:   cat.Name,
				Confidence: in.Confidence,
				Source:     source,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		created = append(created, txn)
		events = append(events, model.DecisionEvent{
			At:            now,
			TransactionID: id,
			Action:        model.ActionIngest,
			ToStatus:      status,
			ToCategory:    cat.Name,
			Source:        source,
		})
	}

	next := make([]model.Transaction, 0, len(e.txns)+len(created))
	next = append(next, e.txns...)
	next = append(next, created...)

	if err := e.commit(ctx, next, events); err != nil {
		return nil, err
	}

	slog.Info("ingested transactions", "count", len(created))
	return created, nil
}

// Approve confirms a transaction that needs review.
func (e *Engine) Approve(ctx context.Context, id string) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn, err := e.approveLocked(ctx, id)
	e.observe(model.ActionApprove, err)
	return txn, err
}

func (e *Engine) approveLocked(ctx context.Context, id string) (model.Transaction, error) {
	i, err := e.find(id)
	if err != nil {
		return model.Transaction{}, err
	}

	current := e.txns[i]
	if current.Status != model.StatusNeedsReview {
		return model.Transaction{}, &common.TransitionError{Op: "approve", ID: id, From: string(current.Status)}
	}

	updated := current
	updated.Status = model.StatusAutoApproved
	updated.UpdatedAt = e.now()

	if err := e.replace(ctx, i, updated, model.ActionApprove, current); err != nil {
		return model.Transaction{}, err
	}

	slog.Info("approved transaction", "id", id, "vendor", updated.Vendor)
	return updated, nil
}

// Recategorize applies a user-chosen category. The result is never left
// in needs-review.
func (e *Engine) Recategorize(ctx context.Context, id, category string) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn, err := e.recategorizeLocked(ctx, id, category)
	e.observe(model.ActionRecategorize, err)
	return txn, err
}

func (e *Engine) recategorizeLocked(ctx context.Context, id, category string) (model.Transaction, error) {
	i, err := e.find(id)
	if err != nil {
		return model.Transaction{}, err
	}

	cat, err := e.lookupCategory(ctx, category)
	if err != nil {
		return model.Transaction{}, err
	}

	current := e.txns[i]
	updated := current
	updated.Category = cat.Name
	updated.Status = RecategorizedStatus(current.Status)
	updated.DecisionSource = model.SourceManualOverride
	updated.UpdatedAt = e.now()

	if err := e.replace(ctx, i, updated, model.ActionRecategorize, current); err != nil {
		return model.Transaction{}, err
	}

	slog.Info("recategorized transaction",
		"id", id,
		"from", current.Category,
		"to", updated.Category,
		"status", updated.Status)
	return updated, nil
}

// Reset restores the classification a transaction was ingested with and
// re-runs the policy on it.
func (e *Engine) Reset(ctx context.Context, id string) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn, err := e.resetLocked(ctx, id)
	e.observe(model.ActionReset, err)
	return txn, err
}

func (e *Engine) resetLocked(ctx context.Context, id string) (model.Transaction, error) {
	i, err := e.find(id)
	if err != nil {
		return model.Transaction{}, err
	}

	current := e.txns[i]
	updated, err := e.restored(ctx, current)
	if err != nil {
		return model.Transaction{}, err
	}

	if err := e.replace(ctx, i, updated, model.ActionReset, current); err != nil {
		return model.Transaction{}, err
	}

	slog.Info("reset transaction", "id", id, "status", updated.Status)
	return updated, nil
}

// ResetAll resets every transaction with a single write.
func (e *Engine) ResetAll(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.resetAllLocked(ctx)
	e.observe(model.ActionReset, err)
	return n, err
}

func (e *Engine) resetAllLocked(ctx context.Context) (int, error) {
	next := slices.Clone(e.txns)
	events := make([]model.DecisionEvent, 0, len(next))

	for i, current := range next {
		updated, err := e.restored(ctx, current)
		if err != nil {
			return 0, fmt.Errorf("transaction %s: %w", current.ID, err)
		}
		next[i] = updated
		events = append(events, e.event(model.ActionReset, current, updated))
	}

	if err := e.commit(ctx, next, events); err != nil {
		return 0, err
	}
	return len(next), nil
}

// Clear removes every transaction with a single write. It returns how many
// were removed.
func (e *Engine) Clear(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.txns)
	if err := e.commit(ctx, nil, nil); err != nil {
		return 0, err
	}
	if e.observer != nil {
		e.observer.ObserveCounts(model.StatusCounts{})
	}

	slog.Info("cleared ledger", "removed", n)
	return n, nil
}

func (e *Engine) restored(ctx context.Context, current model.Transaction) (model.Transaction, error) {
	cat, err := e.lookupCategory(ctx, current.Original.Category)
	if err != nil {
		return model.Transaction{}, err
	}

	updated := current
	updated.Category = current.Original.Category
	updated.Confidence = current.Original.Confidence
	updated.DecisionSource = current.Original.Source
	updated.Status = e.policy.Assign(current.Original.Confidence, cat.HighImpact)
	updated.UpdatedAt = e.now()
	return updated, nil
}

// Get returns a single transaction.
func (e *Engine) Get(_ context.Context, id string) (model.Transaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i, err := e.find(id)
	if err != nil {
		return model.Transaction{}, err
	}
	return e.txns[i], nil
}

// List returns the transactions matching filter, newest first. Transactions
// on the same date keep their ingestion order.
func (e *Engine) List(_ context.Context, filter model.Filter) []model.Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]model.Transaction, 0, len(e.txns))
	for _, txn := range e.txns {
		if filter.Matches(txn) {
			out = append(out, txn)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// CountByStatus partitions the full set by status.
func (e *Engine) CountByStatus(_ context.Context) model.StatusCounts {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return countLocked(e.txns)
}

// calendarDate drops the time of day. The store keeps dates only, so a
// ledger must order the same before and after a reload.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func countLocked(txns []model.Transaction) model.StatusCounts {
	var counts model.StatusCounts
	for _, txn := range txns {
		counts.Add(txn.Status)
	}
	return counts
}

func (e *Engine) find(id string) (int, error) {
	i, ok := e.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return i, nil
}

func (e *Engine) lookupCategory(ctx context.Context, name string) (*model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty category", common.ErrInvalidCategory)
	}

	cat, err := e.registry.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category %q: %w", name, err)
	}
	if cat == nil || !cat.IsActive {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidCategory, name)
	}
	return cat, nil
}

// replace swaps a single transaction and commits the new set.
func (e *Engine) replace(ctx context.Context, i int, updated model.Transaction, action model.Action, previous model.Transaction) error {
	next := slices.Clone(e.txns)
	next[i] = updated
	return e.commit(ctx, next, []model.DecisionEvent{e.event(action, previous, updated)})
}

// commit persists next and only then makes it the visible state.
func (e *Engine) commit(ctx context.Context, next []model.Transaction, events []model.DecisionEvent) error {
	if err := e.store.SaveLedger(ctx, model.Snapshot{Transactions: next, Events: events}); err != nil {
		slog.Error("failed to persist ledger", "error", err, "transactions", len(next))
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	index := make(map[string]int, len(next))
	for i, txn := range next {
		index[txn.ID] = i
	}
	e.txns = next
	e.index = index
	return nil
}

func (e *Engine) event(action model.Action, from, to model.Transaction) model.DecisionEvent {
	return model.DecisionEvent{
		At:            to.UpdatedAt,
		TransactionID: to.ID,
		Action:        action,
		FromStatus:    from.Status,
		ToStatus:      to.Status,
		FromCategory:  from.Category,
		ToCategory:    to.Category,
		Source:        to.DecisionSource,
	}
}

func (e *Engine) observe(action model.Action, err error) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveDecision(action, err)
	if err == nil {
		e.observer.ObserveCounts(countLocked(e.txns))
	}
}

func validateClassified(in model.Classified) error {
	if strings.TrimSpace(in.Vendor) == "" {
		return fmt.Errorf("%w: missing vendor", common.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: missing date", common.ErrInvalidInput)
	}
	if !ValidConfidence(in.Confidence) {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfidence, in.Confidence)
	}
	switch in.Source {
	case "", model.SourceModel, model.SourceRule:
	default:
		return fmt.Errorf("%w: decision source %q is not a classifier source", common.ErrInvalidInput, in.Source)
	}
	return nil
}

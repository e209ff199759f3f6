package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// memStore is an in-memory Store that can be told to fail the next save.
type memStore struct {
	failNext error
	txns     []model.Transaction
	events   []model.DecisionEvent
	saves    int
}

func (s *memStore) LoadLedger(_ context.Context) ([]model.Transaction, error) {
	return slices.Clone(s.txns), nil
}

func (s *memStore) SaveLedger(_ context.Context, snap model.Snapshot) error {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	s.saves++
	s.txns = slices.Clone(snap.Transactions)
	s.events = append(s.events, snap.Events...)
	return nil
}

// mapRegistry resolves categories from a fixed map.
type mapRegistry map[string]model.Category

func (r mapRegistry) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	cat, ok := r[name]
	if !ok {
		return nil, nil
	}
	return &cat, nil
}

func testRegistry() mapRegistry {
	reg := mapRegistry{}
	for _, c := range []model.Category{
		{Name: "Inventory", Type: model.CategoryTypeCOGS},
		{Name: "Travel", Type: model.CategoryTypeExpense},
		{Name: "Office Supplies", Type: model.CategoryTypeExpense},
		{Name: "Revenue", Type: model.CategoryTypeRevenue},
		{Name: "HighImpactCategory", Type: model.CategoryTypeExpense, HighImpact: true},
	} {
		c.IsActive = true
		reg[c.Name] = c
	}
	reg["Retired"] = model.Category{Name: "Retired", Type: model.CategoryTypeExpense}
	return reg
}

// sequentialIDs yields txn-1, txn-2, ...
type sequentialIDs struct{ n int }

func (s *sequentialIDs) Generate() string {
	s.n++
	return fmt.Sprintf("txn-%d", s.n)
}

var fixedNow = time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *memStore) {
	t.Helper()

	store := &memStore{}
	all := append([]Option{
		WithIDGenerator(&sequentialIDs{}),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)

	e, err := New(context.Background(), store, testRegistry(), all...)
	require.NoError(t, err)
	return e, store
}

func classified(vendor, amount, category string, confidence float64) model.Classified {
	return model.Classified{
		Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Vendor:      vendor,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Confidence:  confidence,
		Explanation: "classified in test: " + strings.ToLower(vendor),
	}
}

func ingest(t *testing.T, e *Engine, in model.Classified) model.Transaction {
	t.Helper()
	txn, err := e.Ingest(context.Background(), in)
	require.NoError(t, err)
	return txn
}

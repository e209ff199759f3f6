package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineOverSQLite(t *testing.T) {
	store := createTestStorageWithCategories(t,
		model.Category{Name: "Travel"},
		model.Category{Name: "Equipment", HighImpact: true},
		model.Category{Name: "Office Supplies"},
	)
	ctx := context.Background()

	eng, err := engine.New(ctx, store, store)
	require.NoError(t, err)

	created, err := eng.IngestBatch(ctx, []model.Classified{
		{ID: "3", Date: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), Vendor: "Uber",
			Amount: decimal.RequireFromString("65.00"), Category: "Travel", Confidence: 0.72},
		{ID: "6", Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Vendor: "Restaurant Supply Co",
			Amount: decimal.RequireFromString("1240.00"), Category: "Equipment", Confidence: 0.75},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusNeedsReview, created[0].Status)
	assert.Equal(t, model.StatusManual, created[1].Status)

	_, err = eng.Recategorize(ctx, "3", "Office Supplies")
	require.NoError(t, err)

	// A fresh engine sees the persisted decision.
	reloaded, err := engine.New(ctx, store, store)
	require.NoError(t, err)
	txn, err := reloaded.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Office Supplies", txn.Category)
	assert.Equal(t, model.StatusAutoApproved, txn.Status)
	assert.Equal(t, model.SourceManualOverride, txn.DecisionSource)
	assert.Equal(t, "Travel", txn.Original.Category)
	assert.True(t, decimal.RequireFromString("65").Equal(txn.Amount))

	history, err := store.GetHistory(ctx, "3")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.ActionRecategorize, history[1].Action)

	_, err = reloaded.Recategorize(ctx, "3", "Yachts")
	assert.ErrorIs(t, err, common.ErrInvalidCategory)

	pending, err := reloaded.Ingest(ctx, model.Classified{
		Date: time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), Vendor: "Lyft",
		Amount: decimal.RequireFromString("18.20"), Category: "Travel", Confidence: 0.8,
	})
	require.NoError(t, err)

	require.NoError(t, store.Close())
	_, err = reloaded.Approve(ctx, pending.ID)
	require.ErrorIs(t, err, common.ErrPersistence)

	txn, err = reloaded.Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNeedsReview, txn.Status)
}

func TestEngineOverSQLite_ReloadKeepsOrder(t *testing.T) {
	store := createTestStorageWithCategories(t, model.Category{Name: "Travel"})
	ctx := context.Background()

	eng, err := engine.New(ctx, store, store)
	require.NoError(t, err)

	_, err = eng.IngestBatch(ctx, []model.Classified{
		{ID: "a", Date: time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC), Vendor: "Uber",
			Amount: decimal.RequireFromString("12.00"), Category: "Travel", Confidence: 0.72},
		{ID: "b", Date: time.Date(2025, 1, 13, 20, 0, 0, 0, time.UTC), Vendor: "Lyft",
			Amount: decimal.RequireFromString("18.20"), Category: "Travel", Confidence: 0.72},
	})
	require.NoError(t, err)

	ids := func(txns []model.Transaction) []string {
		out := make([]string, len(txns))
		for i, txn := range txns {
			out[i] = txn.ID
		}
		return out
	}
	before := eng.List(ctx, model.Filter{})

	reloaded, err := engine.New(ctx, store, store)
	require.NoError(t, err)
	after := reloaded.List(ctx, model.Filter{})

	assert.Equal(t, []string{"a", "b"}, ids(before))
	assert.Equal(t, ids(before), ids(after))
	for i := range before {
		assert.True(t, before[i].Date.Equal(after[i].Date), "date %v != %v", before[i].Date, after[i].Date)
	}
	assert.True(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC).Equal(after[1].Date))
}

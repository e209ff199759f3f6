package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_LedgerRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := testTransaction("1", "Sysco Boston", "342.50", 15)
	first.Status = model.StatusAutoApproved
	first.Category = "Inventory - Food & Supplies"
	first.Confidence = 0.98
	first.PaymentMethod = "Corporate Card"
	first.OriginalDescription = "SYSCO BOSTON #4411"
	first.Original = model.Classification{Category: "Inventory - Food & Supplies", Confidence: 0.98, Source: model.SourceRule}

	second := testTransaction("2", "Uber", "-65.00", 13)
	second.Category = "Office Supplies"
	second.Status = model.StatusAutoApproved
	second.DecisionSource = model.SourceManualOverride

	require.NoError(t, store.SaveLedger(ctx, model.Snapshot{Transactions: []model.Transaction{first, second}}))

	loaded, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	for i, want := range []model.Transaction{first, second} {
		got := loaded[i]
		assert.Equal(t, want.ID, got.ID)
		assert.True(t, want.Date.Equal(got.Date), "date %v != %v", want.Date, got.Date)
		assert.True(t, want.Amount.Equal(got.Amount), "amount %s != %s", want.Amount, got.Amount)
		assert.Equal(t, want.Vendor, got.Vendor)
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.Confidence, got.Confidence)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.DecisionSource, got.DecisionSource)
		assert.Equal(t, want.Explanation, got.Explanation)
		assert.Equal(t, want.PaymentMethod, got.PaymentMethod)
		assert.Equal(t, want.OriginalDescription, got.OriginalDescription)
		assert.Equal(t, want.Original, got.Original)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
	}
}

func TestSQLiteStorage_SaveLedgerReplacesSet(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	a := testTransaction("a", "Uber", "65.00", 13)
	b := testTransaction("b", "Lyft", "22.00", 14)
	c := testTransaction("c", "Amtrak", "120.00", 12)

	require.NoError(t, store.SaveLedger(ctx, model.Snapshot{Transactions: []model.Transaction{a, b}}))
	require.NoError(t, store.SaveLedger(ctx, model.Snapshot{Transactions: []model.Transaction{c, a}}))

	loaded, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "c", loaded[0].ID)
	assert.Equal(t, "a", loaded[1].ID)

	require.NoError(t, store.SaveLedger(ctx, model.Snapshot{}))
	loaded, err = store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSQLiteStorage_SaveLedgerIsAtomic(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	good := testTransaction("a", "Uber", "65.00", 13)
	require.NoError(t, store.SaveLedger(ctx, model.Snapshot{Transactions: []model.Transaction{good}}))

	tests := []struct {
		name string
		snap model.Snapshot
	}{
		{
			name: "invalid status",
			snap: func() model.Snapshot {
				bad := testTransaction("b", "Lyft", "1.00", 1)
				bad.Status = "pending"
				return model.Snapshot{Transactions: []model.Transaction{good, bad}}
			}(),
		},
		{
			name: "duplicate primary key fails mid-write",
			snap: model.Snapshot{Transactions: []model.Transaction{
				testTransaction("x", "Lyft", "1.00", 1),
				testTransaction("x", "Lyft", "2.00", 2),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, store.SaveLedger(ctx, tt.snap))

			loaded, err := store.LoadLedger(ctx)
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, "a", loaded[0].ID)
		})
	}
}

func TestSQLiteStorage_CanceledContext(t *testing.T) {
	store := createTestStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SaveLedger(ctx, model.Snapshot{Transactions: []model.Transaction{testTransaction("a", "Uber", "1", 1)}})
	assert.Error(t, err)

	loaded, err := store.LoadLedger(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSQLiteStorage_History(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	at := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

	txn := testTransaction("a", "Uber", "65.00", 13)
	require.NoError(t, store.SaveLedger(ctx, model.Snapshot{
		Transactions: []model.Transaction{txn},
		Events: []model.DecisionEvent{{
			At: at, TransactionID: "a", Action: model.ActionIngest,
			ToStatus: model.StatusNeedsReview, ToCategory: "Travel", Source: model.SourceModel,
		}},
	}))

	txn.Status = model.StatusAutoApproved
	require.NoError(t, store.SaveLedger(ctx, model.Snapshot{
		Transactions: []model.Transaction{txn},
		Events: []model.DecisionEvent{{
			At: at.Add(time.Minute), TransactionID: "a", Action: model.ActionApprove,
			FromStatus: model.StatusNeedsReview, ToStatus: model.StatusAutoApproved,
			FromCategory: "Travel", ToCategory: "Travel", Source: model.SourceModel,
		}},
	}))

	history, err := store.GetHistory(ctx, "a")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.ActionIngest, history[0].Action)
	assert.Empty(t, history[0].FromStatus)
	assert.Equal(t, model.ActionApprove, history[1].Action)
	assert.Equal(t, model.StatusNeedsReview, history[1].FromStatus)
	assert.Equal(t, model.StatusAutoApproved, history[1].ToStatus)
	assert.True(t, history[1].At.Equal(at.Add(time.Minute)))
	assert.NotZero(t, history[1].ID)

	none, err := store.GetHistory(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = store.GetHistory(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyString)

	require.NoError(t, store.ClearHistory(ctx))
	history, err = store.GetHistory(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, history)
}

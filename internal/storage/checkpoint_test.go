package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCheckpointManager(t *testing.T) (*SQLiteStorage, *CheckpointManager) {
	t.Helper()

	store := createTestStorageWithCategories(t, model.Category{Name: "Travel"}, model.Category{Name: "Rent"})
	require.NoError(t, store.SaveLedger(context.Background(), model.Snapshot{
		Transactions: []model.Transaction{
			testTransaction("a", "Uber", "65.00", 13),
			testTransaction("b", "Lyft", "22.00", 14),
		},
		Events: []model.DecisionEvent{{
			At: time.Now(), TransactionID: "a", Action: model.ActionIngest,
			ToStatus: model.StatusNeedsReview, ToCategory: "Travel", Source: model.SourceModel,
		}},
	}))

	cm, err := store.NewCheckpointManager()
	require.NoError(t, err)

	tick := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	cm.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return store, cm
}

func TestCheckpointManager_Create(t *testing.T) {
	store, cm := newTestCheckpointManager(t)
	ctx := context.Background()

	tests := []struct {
		errType     error
		name        string
		tag         string
		description string
	}{
		{name: "with tag", tag: "before-demo", description: "Before demo"},
		{name: "generated tag", description: "Generated"},
		{name: "path traversal", tag: "../escape", errType: ErrInvalidCheckpoint},
		{name: "duplicate", tag: "before-demo", errType: ErrCheckpointExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := cm.Create(ctx, tt.tag, tt.description)
			if tt.errType != nil {
				assert.ErrorIs(t, err, tt.errType)
				return
			}

			require.NoError(t, err)
			if tt.tag != "" {
				assert.Equal(t, tt.tag, info.ID)
			} else {
				assert.Contains(t, info.ID, "checkpoint-")
			}
			assert.Equal(t, tt.description, info.Description)
			assert.Positive(t, info.FileSize)
			assert.Equal(t, 2, info.Transactions)
			assert.Equal(t, 2, info.Categories)
			assert.Equal(t, 1, info.Decisions)
			assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
			assert.False(t, info.IsAuto)

			dir := filepath.Join(filepath.Dir(store.Path()), "checkpoints")
			assert.FileExists(t, filepath.Join(dir, info.ID+".db"))
			assert.FileExists(t, filepath.Join(dir, info.ID+".meta.json"))
		})
	}
}

func TestCheckpointManager_ListNewestFirst(t *testing.T) {
	_, cm := newTestCheckpointManager(t)
	ctx := context.Background()

	for _, tag := range []string{"one", "two", "three"} {
		_, err := cm.Create(ctx, tag, "")
		require.NoError(t, err)
	}

	list, err := cm.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0].ID)
	assert.Equal(t, "one", list[2].ID)
}

func TestCheckpointManager_AutoCheckpointPrunes(t *testing.T) {
	_, cm := newTestCheckpointManager(t)
	ctx := context.Background()

	_, err := cm.Create(ctx, "manual", "kept")
	require.NoError(t, err)

	for i := 0; i < maxAutoCheckpoints+2; i++ {
		info, err := cm.AutoCheckpoint(ctx, "reset")
		require.NoError(t, err)
		assert.True(t, info.IsAuto)
	}

	list, err := cm.List(ctx)
	require.NoError(t, err)

	auto := 0
	for _, cp := range list {
		if cp.IsAuto {
			auto++
		}
	}
	assert.Equal(t, maxAutoCheckpoints, auto)
	assert.Len(t, list, maxAutoCheckpoints+1)
}

func TestCheckpointManager_Restore(t *testing.T) {
	store, cm := newTestCheckpointManager(t)
	ctx := context.Background()

	_, err := cm.Create(ctx, "two-transactions", "")
	require.NoError(t, err)

	require.NoError(t, store.SaveLedger(ctx, model.Snapshot{}))
	require.NoError(t, cm.Restore(ctx, "two-transactions"))

	reopened, err := NewSQLiteStorage(store.Path())
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	assert.ErrorIs(t, cm.Restore(ctx, "missing"), ErrCheckpointNotFound)
	assert.ErrorIs(t, cm.Restore(ctx, "a/b"), ErrInvalidCheckpoint)
}

func TestCheckpointManager_RestoreRejectsCorruptCheckpoint(t *testing.T) {
	store, cm := newTestCheckpointManager(t)
	ctx := context.Background()

	_, err := cm.Create(ctx, "broken", "")
	require.NoError(t, err)

	path := filepath.Join(filepath.Dir(store.Path()), "checkpoints", "broken.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0600))

	err = cm.Restore(ctx, "broken")
	assert.ErrorIs(t, err, ErrCheckpointCorrupted)
}

func TestCheckpointManager_Delete(t *testing.T) {
	_, cm := newTestCheckpointManager(t)
	ctx := context.Background()

	_, err := cm.Create(ctx, "gone", "")
	require.NoError(t, err)

	require.NoError(t, cm.Delete(ctx, "gone"))
	assert.ErrorIs(t, cm.Delete(ctx, "gone"), ErrCheckpointNotFound)

	list, err := cm.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStorage opens a migrated database file in a temp directory.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func createTestStorageWithCategories(t *testing.T, cats ...model.Category) *SQLiteStorage {
	t.Helper()

	store := createTestStorage(t)
	for _, cat := range cats {
		_, err := store.CreateCategory(context.Background(), cat)
		require.NoError(t, err)
	}
	return store
}

func testTransaction(id, vendor, amount string, day int) model.Transaction {
	at := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	return model.Transaction{
		ID:             id,
		Date:           time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Vendor:         vendor,
		Amount:         decimal.RequireFromString(amount),
		Category:       "Travel",
		Confidence:     0.72,
		Status:         model.StatusNeedsReview,
		Explanation:    "Unusual time for business travel",
		DecisionSource: model.SourceModel,
		Original: model.Classification{
			Category:   "Travel",
			Confidence: 0.72,
			Source:     model.SourceModel,
		},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.ErrorIs(t, err, ErrEmptyString)

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	_, err = store.NewCheckpointManager()
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestSQLiteStorage_NestedDirectoryIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "ledger.db")
	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, path, store.Path())
	assert.FileExists(t, path)
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	flags, err := store.GetSessionFlags(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SessionFlags{}, flags)

	for _, table := range []string{"transactions", "categories", "decision_history", "session_flags", "checkpoint_metadata"} {
		var n int
		err := store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, "PRAGMA user_version = 99")
	require.NoError(t, err)

	err = store.Migrate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

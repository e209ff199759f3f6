// Package testutil provides test helpers shared across packages: an
// isolated in-memory database seeded with categories, and an engine bound
// to it.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/finsense/internal/catalog"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/storage"
)

// TestDB is an in-memory database with its categories.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	t          *testing.T
	Categories []model.Category
}

// SetupTestDB creates a migrated in-memory database seeded with cats, or
// with the default catalog when none are given. The database is closed
// when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	eng := db.NewEngine()
func SetupTestDB(t *testing.T, cats ...model.Category) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(cats) == 0 {
		cats = catalog.DefaultCategories()
	}
	if _, err := store.ImportCategories(ctx, cats); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}

	return &TestDB{
		Storage:    store,
		Categories: cats,
		t:          t,
	}
}

// NewEngine loads an engine over the test database.
func (db *TestDB) NewEngine(opts ...engine.Option) *engine.Engine {
	db.t.Helper()

	eng, err := engine.New(context.Background(), db.Storage, db.Storage, opts...)
	if err != nil {
		db.t.Fatalf("failed to create engine: %v", err)
	}
	return eng
}

// MustGetCategory returns the seeded category with the given name or fails the test.
func (db *TestDB) MustGetCategory(name string) model.Category {
	db.t.Helper()

	for _, cat := range db.Categories {
		if cat.Name == name {
			return cat
		}
	}
	db.t.Fatalf("category %q was not seeded", name)
	return model.Category{}
}

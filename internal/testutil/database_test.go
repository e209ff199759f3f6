package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDBSeedsDefaults(t *testing.T) {
	db := SetupTestDB(t)

	cats, err := db.Storage.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, len(db.Categories))
	assert.True(t, db.MustGetCategory("Equipment").HighImpact)
}

func TestSetupTestDBWithCategories(t *testing.T) {
	db := SetupTestDB(t, model.Category{Name: "Travel", Type: model.CategoryTypeExpense})
	eng := db.NewEngine()

	txn, err := eng.Ingest(context.Background(), Classified("1", "Uber", "65.00", "Travel", 0.72, 13))
	require.NoError(t, err)
	assert.Equal(t, model.StatusNeedsReview, txn.Status)
}

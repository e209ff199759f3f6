package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_SessionFlags(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	want := model.SessionFlags{ReviewCompleted: true, BannerShown: true}
	require.NoError(t, store.SaveSessionFlags(ctx, want))

	got, err := store.GetSessionFlags(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.SaveSessionFlags(ctx, model.SessionFlags{BannerShown: true}))
	got, err = store.GetSessionFlags(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SessionFlags{BannerShown: true}, got)
}

package session

import (
	"context"
	"testing"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flagStore struct{ flags model.SessionFlags }

func (s *flagStore) GetSessionFlags(context.Context) (model.SessionFlags, error) { return s.flags, nil }

func (s *flagStore) SaveSessionFlags(_ context.Context, f model.SessionFlags) error {
	s.flags = f
	return nil
}

type fixedCounts model.StatusCounts

func (c fixedCounts) CountByStatus(context.Context) model.StatusCounts { return model.StatusCounts(c) }

func TestManager_CompleteRefusedWhilePending(t *testing.T) {
	store := &flagStore{flags: model.SessionFlags{BannerShown: true}}
	m := NewManager(store, fixedCounts{NeedsReview: 2, AutoApproved: 5})

	_, err := m.Complete(context.Background())
	require.ErrorIs(t, err, common.ErrReviewIncomplete)
	assert.False(t, store.flags.ReviewCompleted)

	// Other flags can still change.
	require.NoError(t, m.Update(context.Background(), model.SessionFlags{}))
	assert.False(t, store.flags.BannerShown)
}

func TestManager_Complete(t *testing.T) {
	store := &flagStore{flags: model.SessionFlags{BannerShown: true}}
	m := NewManager(store, fixedCounts{AutoApproved: 5, Manual: 1})

	flags, err := m.Complete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.SessionFlags{ReviewCompleted: true, BannerShown: true}, flags)

	got, err := m.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, flags, got)
}

func TestManager_GetReopensWhenNewItemsNeedReview(t *testing.T) {
	store := &flagStore{flags: model.SessionFlags{ReviewCompleted: true, BannerShown: true}}
	counts := fixedCounts{AutoApproved: 5}
	ctx := context.Background()

	got, err := NewManager(store, counts).Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.ReviewCompleted)

	// A later ingest queued one more transaction.
	counts.NeedsReview = 1
	got, err = NewManager(store, counts).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SessionFlags{BannerShown: true}, got)
	assert.Equal(t, model.SessionFlags{BannerShown: true}, store.flags)
}

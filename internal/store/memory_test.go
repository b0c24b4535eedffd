package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3forms/internal/store"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	id, err := s.Save(ctx, sampleRecord())
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ethereum-mainnet", got.NetworkID)
	assert.Equal(t, int64(1), got.Generation)

	got.Title = "changed"
	require.NoError(t, s.Update(ctx, got))

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "changed", records[0].Title)
	assert.Equal(t, int64(2), records[0].Generation)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.True(t, store.IsNotFound(err))
}

func TestMemoryStoreCopiesOnReadAndWrite(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord()
	id, err := s.Save(ctx, rec)
	require.NoError(t, err)

	// Mutating what the caller handed in must not affect stored state.
	rec.FormConfig.Fields[0].Label = "mutated after save"

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "To", got.FormConfig.Fields[0].Label)

	// Mutating a read result must not affect stored state either.
	got.FormConfig.Fields[0].Label = "mutated after get"

	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "To", again.FormConfig.Fields[0].Label)
}

func TestMemoryStoreConflict(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	id, err := s.Save(ctx, sampleRecord())
	require.NoError(t, err)

	stale, err := s.Get(ctx, id)
	require.NoError(t, err)
	fresh, err := s.Get(ctx, id)
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, fresh))

	err = s.Update(ctx, stale)
	assert.True(t, store.IsConflict(err))
}

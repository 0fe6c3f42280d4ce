package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_CreatesMissingReference(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)

	id, err := r.Brand(context.Background(), "Tommy Hilfiger")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, []string{"Tommy Hilfiger"}, r.Created(KindBrand))
}

func TestResolver_CachesWithinBatch(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)
	ctx := context.Background()

	first, err := r.Brand(ctx, "Zara")
	require.NoError(t, err)
	second, err := r.Brand(ctx, "Zara")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.findRefCalls[refKey{kind: KindBrand, name: "Zara"}])
	assert.Equal(t, 1, store.createRefCalls)
}

func TestResolver_TrimsNamesBeforeResolving(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)
	ctx := context.Background()

	first, err := r.Brand(ctx, "Zara")
	require.NoError(t, err)
	second, err := r.Brand(ctx, "  Zara ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.createRefCalls)
}

func TestResolver_ColorGetsBuiltinCode(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)

	_, err := r.Color(context.Background(), "Navy")
	require.NoError(t, err)
	assert.Equal(t, "#000080", store.colorCodes["Navy"])

	_, err = r.Color(context.Background(), "Heather Mist")
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", store.colorCodes["Heather Mist"])
}

func TestResolver_CreateConflictResolvesToExisting(t *testing.T) {
	store := newFakeStore()
	// A competing writer inserts the brand between lookup and create.
	store.raceRefs[refKey{kind: KindBrand, name: "Mango"}] = 77

	r := NewResolver(store)
	id, err := r.Brand(context.Background(), "Mango")
	require.NoError(t, err)
	assert.Equal(t, uint(77), id)
	// Resolved via conflict, so the batch did not create it.
	assert.Empty(t, r.Created(KindBrand))
}

func TestResolver_TagNeverCreated(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)
	ctx := context.Background()

	_, found, err := r.Tag(ctx, "Summer")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, store.createRefCalls)

	// The miss is cached: a second lookup skips the store.
	_, found, err = r.Tag(ctx, "Summer")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, store.findRefCalls[refKey{kind: KindTag, name: "Summer"}])
}

func TestResolver_TagFindsExisting(t *testing.T) {
	store := newFakeStore()
	seeded := store.seedRef(KindTag, "Summer")

	r := NewResolver(store)
	id, found, err := r.Tag(context.Background(), "Summer")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, seeded, id)
}

func TestDefaultColorCode(t *testing.T) {
	assert.Equal(t, "#000000", DefaultColorCode("Black"))
	assert.Equal(t, "#808080", DefaultColorCode("GREY"))
	assert.Equal(t, "#FFFFFF", DefaultColorCode("Heather Mist"))
}

package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/categorit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCache_StoreAndLookup(t *testing.T) {
	cache, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	err = cache.StoreEmbeddings(ctx,
		&core.CachedEmbedding{Model: "m1", Text: "alpha", Vector: []float32{1, 2}},
		&core.CachedEmbedding{Model: "m1", Text: "beta", Vector: []float32{3, 4}},
		&core.CachedEmbedding{Model: "m2", Text: "alpha", Vector: []float32{5, 6}},
	)
	require.NoError(t, err)

	vectors, err := cache.LookupEmbeddings(ctx, "m1", []string{"beta", "gamma", "alpha"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{3, 4}, vectors[0])
	assert.Nil(t, vectors[1])
	assert.Equal(t, []float32{1, 2}, vectors[2])

	vectors, err = cache.LookupEmbeddings(ctx, "m2", []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6}, vectors[0])
	assert.Nil(t, vectors[1])
}

func TestEmbeddingCache_Overwrite(t *testing.T) {
	cache, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, cache.StoreEmbeddings(ctx, &core.CachedEmbedding{Model: "m", Text: "t", Vector: []float32{1}}))
	require.NoError(t, cache.StoreEmbeddings(ctx, &core.CachedEmbedding{Model: "m", Text: "t", Vector: []float32{2}}))

	vectors, err := cache.LookupEmbeddings(ctx, "m", []string{"t"})
	require.NoError(t, err)
	assert.Equal(t, []float32{2}, vectors[0])
}

func TestEmbeddingCache_Purge(t *testing.T) {
	cache, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	var batch []*core.CachedEmbedding
	for i := 0; i < 10; i++ {
		batch = append(batch, &core.CachedEmbedding{Model: "old", Text: fmt.Sprintf("text %d", i), Vector: []float32{float32(i)}})
	}
	batch = append(batch, &core.CachedEmbedding{Model: "new", Text: "text 0", Vector: []float32{42}})
	require.NoError(t, cache.StoreEmbeddings(ctx, batch...))

	removed, err := cache.PurgeEmbeddings(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, 10, removed)

	vectors, err := cache.LookupEmbeddings(ctx, "old", []string{"text 0"})
	require.NoError(t, err)
	assert.Nil(t, vectors[0])

	vectors, err = cache.LookupEmbeddings(ctx, "new", []string{"text 0"})
	require.NoError(t, err)
	assert.Equal(t, []float32{42}, vectors[0])

	removed, err = cache.PurgeEmbeddings(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestEmbeddingCache_CanceledContext(t *testing.T) {
	cache, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = cache.LookupEmbeddings(ctx, "m", []string{"t"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmbeddingKeys(t *testing.T) {
	assert.Equal(t, makeEmbeddingKey("m", "a"), makeEmbeddingKey("m", "a"))
	assert.NotEqual(t, makeEmbeddingKey("m", "a"), makeEmbeddingKey("m", "b"))
	assert.NotEqual(t, makeEmbeddingKey("a", "b:c"), makeEmbeddingKey("a:b", "c"))
	assert.Equal(t, makeEmbeddingModelPrefix("m"), makeEmbeddingKey("m", "x")[:len(embeddingPrefix)+8])
}

package indexer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/categorit/ai/mock"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage/badger"
	"github.com/poiesic/categorit/taxonomy"
	"github.com/poiesic/categorit/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries(t *testing.T) []core.Entry {
	t.Helper()
	entries, err := taxonomy.Flatten([]*taxonomy.Node{
		taxonomy.NewNode("Skincare",
			taxonomy.NewNode("By Category",
				taxonomy.NewNode("UV Protection").WithMeta("3fa9b1c2", "Sun protection"),
				taxonomy.NewNode("Serums"),
			),
		),
		taxonomy.NewNode("Pantry", taxonomy.NewNode("Spices")),
	})
	require.NoError(t, err)
	return entries
}

func fastConfig(batchSize int) *Config {
	return &Config{BatchSize: batchSize, ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond}
}

func TestNewBuilder_Validation(t *testing.T) {
	_, err := NewBuilder(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewBuilder(mock.NewMockEmbedder(), WithConfig(&Config{}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cache, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	_, err = NewBuilder(mock.NewMockEmbedder(), WithCache(cache, ""))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuilder_Build(t *testing.T) {
	entries := testEntries(t)
	embedder := mock.NewMockEmbedder()

	var progress bytes.Buffer
	b, err := NewBuilder(embedder, WithConfig(fastConfig(2)), WithProgress(&progress))
	require.NoError(t, err)

	index, err := b.Build(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, len(entries), index.Len())
	assert.Equal(t, mock.DefaultDimension, index.Dim())
	assert.Equal(t, 3, embedder.CallCount(), "6 entries in batches of 2")

	// Position i holds the vector of entry i's description.
	for i := range entries {
		want, err := embedder.EmbedText(context.Background(), vector.Describe(&entries[i]))
		require.NoError(t, err)
		assert.Equal(t, want, index.Vector(i))
	}

	assert.Contains(t, progress.String(), "6/6")
}

func TestBuilder_BuildFailsWithoutPartialIndex(t *testing.T) {
	entries := testEntries(t)
	embedder := mock.NewMockEmbedder()
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("quota exceeded")
		}
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = []float32{1}
		}
		return out, nil
	}

	b, err := NewBuilder(embedder, WithConfig(fastConfig(4)))
	require.NoError(t, err)

	index, err := b.Build(context.Background(), entries)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexBuildFailed)
	assert.Nil(t, index)
}

func TestBuilder_DimensionMismatch(t *testing.T) {
	entries := testEntries(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = make([]float32, 2+i)
		}
		return out, nil
	}

	b, err := NewBuilder(embedder, WithConfig(fastConfig(32)))
	require.NoError(t, err)

	_, err = b.Build(context.Background(), entries)
	assert.ErrorIs(t, err, ErrIndexBuildFailed)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestBuilder_EmptyAndCanceled(t *testing.T) {
	b, err := NewBuilder(mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = b.Build(context.Background(), nil)
	assert.ErrorIs(t, err, ErrIndexBuildFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Build(ctx, testEntries(t))
	assert.ErrorIs(t, err, ErrIndexBuildFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_CacheAcrossBuilds(t *testing.T) {
	cache, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	entries := testEntries(t)
	embedder := mock.NewMockEmbedder()

	b, err := NewBuilder(embedder, WithConfig(fastConfig(4)), WithCache(cache, mock.MockModel))
	require.NoError(t, err)

	first, err := b.Build(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, len(entries), embedder.TextCount())

	embedder.Reset()
	second, err := b.Build(context.Background(), entries)
	require.NoError(t, err)
	assert.Zero(t, embedder.CallCount())

	for i := range entries {
		assert.Equal(t, first.Vector(i), second.Vector(i))
	}
}

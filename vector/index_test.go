package vector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndex(t *testing.T) {
	idx, err := NewIndex([][]float32{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 3, idx.Dim())
	assert.Equal(t, []float32{4, 5, 6}, idx.Vector(1))
}

func TestNewIndex_CopiesInput(t *testing.T) {
	input := [][]float32{{1, 0}}
	idx, err := NewIndex(input)
	require.NoError(t, err)

	input[0][0] = 99
	assert.Equal(t, []float32{1, 0}, idx.Vector(0))
}

func TestNewIndex_Errors(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float32
	}{
		{name: "mixed dimensions", vectors: [][]float32{{1, 2}, {1, 2, 3}}},
		{name: "zero dimension", vectors: [][]float32{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIndex(tt.vectors)
			assert.ErrorIs(t, err, ErrDimensionMismatch)
		})
	}
}

func TestSearch(t *testing.T) {
	idx, err := NewIndex([][]float32{
		{0, 0},
		{10, 0},
		{0, 10},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    []float32
		wantPos  int
		wantDist float32
	}{
		{name: "exact hit", query: []float32{10, 0}, wantPos: 1, wantDist: 0},
		{name: "nearest origin", query: []float32{1, 1}, wantPos: 0, wantDist: 2},
		{name: "nearest third", query: []float32{1, 8}, wantPos: 2, wantDist: 5},
		{name: "tie goes to lowest position", query: []float32{5, 5}, wantPos: 0, wantDist: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, dist, err := idx.Search(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPos, pos)
			assert.InDelta(t, tt.wantDist, dist, 1e-6)
		})
	}
}

func TestSearch_Errors(t *testing.T) {
	empty, err := NewIndex(nil)
	require.NoError(t, err)
	_, _, err = empty.Search([]float32{1})
	assert.ErrorIs(t, err, ErrEmptyIndex)

	idx, err := NewIndex([][]float32{{1, 2, 3}})
	require.NoError(t, err)
	_, _, err = idx.Search([]float32{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSearch_Concurrent(t *testing.T) {
	vectors := make([][]float32, 100)
	for i := range vectors {
		vectors[i] = []float32{float32(i), float32(i * 2)}
	}
	idx, err := NewIndex(vectors)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pos, dist, err := idx.Search([]float32{float32(i), float32(i * 2)})
			assert.NoError(t, err)
			assert.Equal(t, i, pos)
			assert.Zero(t, dist)
		}(i)
	}
	wg.Wait()
}

func TestSquaredDistance(t *testing.T) {
	assert.Equal(t, float32(25), SquaredDistance([]float32{0, 0}, []float32{3, 4}))
	assert.Equal(t, float32(0), SquaredDistance([]float32{1, 2}, []float32{1, 2}))
}

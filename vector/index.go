package vector

import (
	"fmt"
	"math"
)

// Index is a flat exact nearest-neighbor index using squared Euclidean distance.
// Vectors are stored contiguously; position i in the index corresponds to the
// i-th vector passed to NewIndex. An Index is read-only after construction and
// safe for concurrent searches.
type Index struct {
	dim  int
	n    int
	data []float32
}

// NewIndex copies vectors into a new index. The first vector fixes the dimension.
// An empty input produces an empty index that rejects searches with ErrEmptyIndex.
func NewIndex(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return &Index{}, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: vector 0 has no components", ErrDimensionMismatch)
	}

	data := make([]float32, 0, dim*len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d components, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		data = append(data, v...)
	}

	return &Index{dim: dim, n: len(vectors), data: data}, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	return idx.n
}

// Dim returns the vector dimension, or 0 for an empty index.
func (idx *Index) Dim() int {
	return idx.dim
}

// Vector returns a copy of the vector stored at position i.
func (idx *Index) Vector(i int) []float32 {
	out := make([]float32, idx.dim)
	copy(out, idx.data[i*idx.dim:(i+1)*idx.dim])
	return out
}

// Search returns the position of the nearest vector to query and its squared
// Euclidean distance. Equal distances resolve to the lowest position.
func (idx *Index) Search(query []float32) (int, float32, error) {
	if idx.n == 0 {
		return -1, 0, ErrEmptyIndex
	}
	if len(query) != idx.dim {
		return -1, 0, fmt.Errorf("%w: query has %d components, want %d", ErrDimensionMismatch, len(query), idx.dim)
	}

	best := -1
	bestDist := float32(math.Inf(1))
	for i := 0; i < idx.n; i++ {
		d := SquaredDistance(query, idx.data[i*idx.dim:(i+1)*idx.dim])
		if d < bestDist || best < 0 {
			best = i
			bestDist = d
		}
	}
	return best, bestDist, nil
}

// SquaredDistance computes the squared Euclidean distance between a and b.
// The caller guarantees equal lengths.
func SquaredDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

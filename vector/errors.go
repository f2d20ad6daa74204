package vector

import "errors"

var (
	// ErrDimensionMismatch indicates a vector whose length differs from the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyIndex indicates a search against an index without vectors.
	ErrEmptyIndex = errors.New("vector index is empty")
)

package indexer

import "errors"

var (
	// ErrIndexBuildFailed indicates the vector index could not be built.
	// No partial index is ever returned alongside it.
	ErrIndexBuildFailed = errors.New("index build failed")

	// ErrInvalidConfig indicates a Config with out-of-range values.
	ErrInvalidConfig = errors.New("invalid indexer config")
)

package ai

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmptyEmbedding is returned when a service answers without a vector.
	ErrEmptyEmbedding = errors.New("embedding service returned no vector")
)

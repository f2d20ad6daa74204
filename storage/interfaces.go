package storage

import (
	"context"

	"github.com/poiesic/categorit/core"
)

// Repository holds the lifecycle operations shared by every store.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the storage backend and releases resources.
	Close() error
}

// EmbeddingCache persists embedding vectors of descriptive texts so an index
// can be rebuilt without calling the embedding service again.
type EmbeddingCache interface {
	Repository

	// LookupEmbeddings returns one vector per text in input order.
	// Texts without a cached vector for model yield a nil entry.
	LookupEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error)

	// StoreEmbeddings saves vectors keyed by model and text content.
	StoreEmbeddings(ctx context.Context, embeddings ...*core.CachedEmbedding) error

	// PurgeEmbeddings removes every cached vector of model and returns the count removed.
	PurgeEmbeddings(ctx context.Context, model string) (int, error)
}

// StockRepository persists quantities per taxonomy path.
type StockRepository interface {
	Repository

	// GetQuantity returns the stored quantity for path.
	// found is false when nothing was ever stored for path.
	GetQuantity(ctx context.Context, path string) (qty float64, found bool, err error)

	// SetQuantity durably stores qty for path and returns the stored value.
	SetQuantity(ctx context.Context, path string, qty float64) (float64, error)

	// GetStockRecord returns the full record for path.
	// Returns ErrNotFound if nothing was stored for path.
	GetStockRecord(ctx context.Context, path string) (*core.StockRecord, error)

	// ListStockRecords returns every stored record ordered by path.
	ListStockRecords(ctx context.Context) ([]*core.StockRecord, error)
}

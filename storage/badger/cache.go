package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// EmbeddingCache implements storage.EmbeddingCache for BadgerDB.
type EmbeddingCache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.EmbeddingCache = (*EmbeddingCache)(nil)

// NewEmbeddingCache creates an embedding cache on top of backend.
// The backend is shared; closing the cache does not close it.
func NewEmbeddingCache(backend *Backend) (storage.EmbeddingCache, error) {
	return newEmbeddingCache(backend), nil
}

func newEmbeddingCache(backend *Backend) *EmbeddingCache {
	return &EmbeddingCache{
		backend: backend,
		logger:  slog.Default().With("component", "embedding-cache"),
	}
}

// Close releases resources. EmbeddingCache has no resources to release.
func (c *EmbeddingCache) Close() error {
	return nil
}

// LookupEmbeddings returns cached vectors for texts in input order, nil for misses.
// A stored record whose text differs from the requested one is a hash collision
// and counts as a miss.
func (c *EmbeddingCache) LookupEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	hits := 0

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for i, text := range texts {
			if err := ctx.Err(); err != nil {
				return err
			}

			item, err := tx.Get(makeEmbeddingKey(model, text))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var cached *core.CachedEmbedding
			if err := item.Value(func(val []byte) error {
				var err error
				cached, err = storage.UnmarshalCachedEmbedding(val)
				return err
			}); err != nil {
				return err
			}

			if cached.Model != model || cached.Text != text {
				c.logger.Warn("embedding key collision", "model", model)
				continue
			}
			vectors[i] = cached.Vector
			hits++
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("embedding lookup", "model", model, "requested", len(texts), "hits", hits)
	return vectors, nil
}

// StoreEmbeddings saves vectors keyed by model and text.
// Large batches are split across transactions when badger reports ErrTxnTooBig.
func (c *EmbeddingCache) StoreEmbeddings(ctx context.Context, embeddings ...*core.CachedEmbedding) error {
	remaining := embeddings
	for len(remaining) > 0 {
		written := 0
		err := c.backend.WithTx(func(tx *badger.Txn) error {
			for _, e := range remaining {
				if err := ctx.Err(); err != nil {
					return err
				}
				err := tx.Set(makeEmbeddingKey(e.Model, e.Text), storage.MarshalCachedEmbedding(e))
				if errors.Is(err, badger.ErrTxnTooBig) && written > 0 {
					break
				}
				if err != nil {
					return err
				}
				written++
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
		remaining = remaining[written:]
	}
	return nil
}

// PurgeEmbeddings removes every cached vector of model.
func (c *EmbeddingCache) PurgeEmbeddings(ctx context.Context, model string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := c.backend.dropPrefix(makeEmbeddingModelPrefix(model))
	if err != nil {
		return 0, err
	}
	c.logger.Info("purged cached embeddings", "model", model, "count", count)
	return count, nil
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// BatchProcessor embeds batches of descriptive texts, consulting the cache first.
type BatchProcessor struct {
	embedder       ai.Embedder
	cache          storage.EmbeddingCache
	model          string
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// NewBatchProcessor creates a new batch processor. cache may be nil.
// maxRetries: maximum number of attempts for each embedding API call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(embedder ai.Embedder, cache storage.EmbeddingCache, model string, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		embedder:       embedder,
		cache:          cache,
		model:          model,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         slog.Default().With("component", "index-batch"),
	}
}

// Process returns one vector per text in input order. Cached vectors are reused;
// the remaining texts are embedded in a single request with retry and then cached.
func (bp *BatchProcessor) Process(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	if bp.cache != nil {
		cached, err := bp.cache.LookupEmbeddings(ctx, bp.model, texts)
		if err != nil {
			// A broken cache only costs embedding calls.
			bp.logger.Warn("embedding cache lookup failed", "err", err)
		} else {
			copy(vectors, cached)
		}
	}

	var missing []int
	for i, v := range vectors {
		if v == nil {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return vectors, nil
	}

	pending := make([]string, len(missing))
	for j, i := range missing {
		pending[j] = texts[i]
	}

	var embeddings [][]float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, pending)
		if err == nil && len(embeddings) != len(pending) {
			err = fmt.Errorf("embedding count mismatch: expected %d, got %d", len(pending), len(embeddings))
		}
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	fresh := make([]*core.CachedEmbedding, len(missing))
	for j, i := range missing {
		if len(embeddings[j]) == 0 {
			return nil, fmt.Errorf("empty embedding for text %d: %w", i, ai.ErrEmptyEmbedding)
		}
		vectors[i] = embeddings[j]
		fresh[j] = &core.CachedEmbedding{Model: bp.model, Text: texts[i], Vector: embeddings[j]}
	}

	if bp.cache != nil {
		if err := bp.cache.StoreEmbeddings(ctx, fresh...); err != nil {
			bp.logger.Warn("failed to cache embeddings", "count", len(fresh), "err", err)
		}
	}

	return vectors, nil
}

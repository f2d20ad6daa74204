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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
	"github.com/poiesic/categorit/vector"
)

// ErrEmbedderRequired is returned when no embedder is provided.
var ErrEmbedderRequired = errors.New("embedder required")

// Builder embeds the descriptive text of every taxonomy entry and assembles the
// vector index. Position i of the index always corresponds to entry i.
type Builder struct {
	embedder ai.Embedder
	cache    storage.EmbeddingCache
	model    string
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithCache reuses and stores vectors in cache under model.
func WithCache(cache storage.EmbeddingCache, model string) Option {
	return func(b *Builder) error {
		if cache != nil && model == "" {
			return fmt.Errorf("%w: cache requires a model name", ErrInvalidConfig)
		}
		b.cache = cache
		b.model = model
		return nil
	}
}

// WithConfig replaces the default batching and retry settings.
func WithConfig(config *Config) Option {
	return func(b *Builder) error {
		if config == nil {
			return nil
		}
		if err := config.Validate(); err != nil {
			return err
		}
		b.config = config
		return nil
	}
}

// WithProgress writes build progress to w.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) error {
		if w == nil {
			w = io.Discard
		}
		b.progress = w
		return nil
	}
}

// WithLogger sets the builder's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates an index builder around embedder.
func NewBuilder(embedder ai.Embedder, opts ...Option) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	b := &Builder{
		embedder: embedder,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build embeds every entry in sequential batches and returns the finished index.
// Any failure aborts the build with ErrIndexBuildFailed; no partial index is returned.
func (b *Builder) Build(ctx context.Context, entries []core.Entry) (*vector.Index, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrIndexBuildFailed)
	}

	texts := vector.DescribeAll(entries)
	vectors := make([][]float32, 0, len(texts))
	processor := NewBatchProcessor(b.embedder, b.cache, b.model, b.config.MaxRetries, b.config.RetryDelay)

	fmt.Fprintf(b.progress, "Embedding %d categories (batch size: %d)\n", len(texts), b.config.BatchSize)
	tracker := NewProgressTracker(b.progress, len(texts), b.config.ReportInterval)
	tracker.Start()

	for start := 0; start < len(texts); start += b.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIndexBuildFailed, err)
		}

		end := min(start+b.config.BatchSize, len(texts))
		batch, err := processor.Process(ctx, texts[start:end])
		if err != nil {
			b.logger.Error("failed to embed batch", "start", start, "end", end, "err", err)
			return nil, fmt.Errorf("%w: entries %d-%d: %w", ErrIndexBuildFailed, start, end-1, err)
		}
		vectors = append(vectors, batch...)
		tracker.Increment(len(batch))
	}

	index, err := vector.NewIndex(vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexBuildFailed, err)
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	b.logger.Info("vector index built", "entries", index.Len(), "dimension", index.Dim(), "elapsed", elapsed.Round(time.Millisecond))
	return index, nil
}

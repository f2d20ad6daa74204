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


package categorit

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/ai/openai"
	"github.com/poiesic/categorit/command"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/indexer"
	"github.com/poiesic/categorit/resolver"
	"github.com/poiesic/categorit/storage"
	"github.com/poiesic/categorit/storage/badger"
	"github.com/poiesic/categorit/taxonomy"
)

// Catalog is a loaded taxonomy with its vector index, resolver and command registry.
// Storage is optional: without a data directory the index is rebuilt from the
// embedding service on every Open and the quantity commands are unavailable.
type Catalog struct {
	backend  *badger.Backend
	cache    storage.EmbeddingCache
	stock    storage.StockRepository
	provider ai.AIProvider
	resolver *resolver.Resolver
	commands *command.Registry
	logger   *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	aiConfig      *ai.Config
	provider      ai.AIProvider
	dataDir       string
	inMemory      bool
	freshCache    bool
	indexerConfig *indexer.Config
	resolverOpts  []resolver.Option
	progress      io.Writer
}

// WithAIConfig configures the OpenAI-compatible embedding provider.
func WithAIConfig(config *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of creating one from the AI config.
// The catalog takes ownership and closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithDataDir stores the embedding cache and quantities in a BadgerDB database at dir.
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.dataDir = dir
	}
}

// WithInMemoryStorage keeps the embedding cache and quantities in memory.
func WithInMemoryStorage() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithFreshCache discards cached vectors of the provider's model before building.
func WithFreshCache() Option {
	return func(o *options) {
		o.freshCache = true
	}
}

// WithIndexerConfig sets batching and retry of the index build.
func WithIndexerConfig(config *indexer.Config) Option {
	return func(o *options) {
		o.indexerConfig = config
	}
}

// WithResolverOptions passes opts to resolver.New.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(o *options) {
		o.resolverOpts = append(o.resolverOpts, opts...)
	}
}

// WithProgress writes index build progress to w.
func WithProgress(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

// Open loads the taxonomy at taxonomyPath, builds its vector index and wires
// the resolver and command registry. Any failure is fatal; nothing is left open.
func Open(ctx context.Context, taxonomyPath string, opts ...Option) (*Catalog, error) {
	options := &options{
		aiConfig: ai.DefaultConfig(),
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(options)
	}

	entries, err := taxonomy.LoadEntries(taxonomyPath)
	if err != nil {
		if options.provider != nil {
			options.provider.Close()
		}
		return nil, err
	}

	c := &Catalog{
		provider: options.provider,
		logger:   slog.Default().With("component", "catalog"),
	}

	if c.provider == nil {
		c.provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	if options.dataDir != "" || options.inMemory {
		if err := c.openStorage(ctx, options); err != nil {
			c.Close()
			return nil, err
		}
	}

	builderOpts := []indexer.Option{
		indexer.WithConfig(options.indexerConfig),
		indexer.WithProgress(options.progress),
	}
	if c.cache != nil {
		builderOpts = append(builderOpts, indexer.WithCache(c.cache, c.provider.Model()))
	}
	builder, err := indexer.NewBuilder(c.provider.Embedder(), builderOpts...)
	if err != nil {
		c.Close()
		return nil, err
	}

	index, err := builder.Build(ctx, entries)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.resolver, err = resolver.New(entries, index, c.provider.Embedder(), options.resolverOpts...)
	if err != nil {
		c.Close()
		return nil, err
	}

	var commandOpts []command.Option
	if c.stock != nil {
		commandOpts = append(commandOpts, command.WithStock(c.stock))
	}
	c.commands, err = command.NewRegistry(c.resolver, commandOpts...)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.logger.Info("catalog ready", "taxonomy", taxonomyPath, "entries", len(entries), "model", c.provider.Model())
	return c, nil
}

func (c *Catalog) openStorage(ctx context.Context, o *options) error {
	backend, err := badger.OpenBackend(o.dataDir, o.inMemory)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	c.backend = backend

	if c.cache, err = badger.NewEmbeddingCache(backend); err != nil {
		return err
	}
	if c.stock, err = badger.NewStockRepository(backend); err != nil {
		return err
	}

	if o.freshCache {
		purged, err := c.cache.PurgeEmbeddings(ctx, c.provider.Model())
		if err != nil {
			return fmt.Errorf("purge embedding cache: %w", err)
		}
		c.logger.Info("embedding cache purged", "model", c.provider.Model(), "vectors", purged)
	}
	return nil
}

// Close releases the provider and storage. It is safe on a partially opened catalog.
func (c *Catalog) Close() error {
	if c.provider != nil {
		if err := c.provider.Close(); err != nil {
			c.logger.Error("error closing AI provider", "err", err)
		}
	}

	if c.stock != nil {
		if err := c.stock.Close(); err != nil {
			c.logger.Error("error closing stock repository", "err", err)
			return err
		}
	}
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Error("error closing embedding cache", "err", err)
			return err
		}
	}

	if c.backend != nil {
		if err := c.backend.Close(); err != nil {
			c.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

// Resolve maps query to a category. See resolver.Resolver.Resolve.
func (c *Catalog) Resolve(ctx context.Context, query string) (*core.ResolvedCategory, error) {
	return c.resolver.Resolve(ctx, query)
}

func (c *Catalog) Resolver() *resolver.Resolver {
	return c.resolver
}

func (c *Catalog) Commands() *command.Registry {
	return c.commands
}

// StockRepository returns the quantity store, or nil when the catalog has no storage.
func (c *Catalog) StockRepository() storage.StockRepository {
	return c.stock
}

// EmbeddingCache returns the embedding cache, or nil when the catalog has no storage.
func (c *Catalog) EmbeddingCache() storage.EmbeddingCache {
	return c.cache
}

// Model returns the embedding model the index was built with.
func (c *Catalog) Model() string {
	return c.provider.Model()
}

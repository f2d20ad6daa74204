package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/lexical"
	"github.com/poiesic/categorit/vector"
)

// LexicalThreshold is the minimum lexical score accepted without consulting the vector index.
const LexicalThreshold = lexical.ScoreLeafSubstring

// Resolver maps free-text queries to taxonomy entries. Entries and index are
// never modified after New, so a Resolver can be shared between goroutines.
type Resolver struct {
	entries  []core.Entry
	byPath   map[string]int
	index    *vector.Index
	embedder ai.Embedder

	queryTimeout  time.Duration
	retryAttempts int
	retryDelay    time.Duration
	maxDistance   float32
	strict        bool
	poolSize      int

	monitor Monitor
	logger  *slog.Logger
}

// New creates a resolver over entries and their vector index. Position i of the
// index must hold the embedding of entry i.
func New(entries []core.Entry, index *vector.Index, embedder ai.Embedder, opts ...Option) (*Resolver, error) {
	if len(entries) == 0 {
		return nil, ErrEntriesRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if index.Len() != len(entries) {
		return nil, fmt.Errorf("%w: %d vectors for %d entries", ErrIndexMismatch, index.Len(), len(entries))
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	byPath := make(map[string]int, len(entries))
	for i := range entries {
		byPath[entries[i].Path] = i
	}

	r := &Resolver{
		entries:       slices.Clone(entries),
		byPath:        byPath,
		index:         index,
		embedder:      embedder,
		queryTimeout:  DefaultQueryTimeout,
		retryAttempts: DefaultRetryAttempts,
		retryDelay:    DefaultRetryDelay,
		poolSize:      max(runtime.NumCPU()/2, 1),
		monitor:       noopMonitor{},
		logger:        slog.Default().With("component", "resolver"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve returns the best entry for query. The lexical matcher is consulted
// first; when its best score is below LexicalThreshold the query is embedded and
// the nearest entry of the vector index is returned.
func (r *Resolver) Resolve(ctx context.Context, query string) (*core.ResolvedCategory, error) {
	return r.ResolveWithMonitor(ctx, query, nil)
}

// ResolveWithMonitor is Resolve reporting its stages to monitor instead of the
// resolver's configured monitor.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, query string, monitor Monitor) (*core.ResolvedCategory, error) {
	if monitor == nil {
		monitor = r.monitor
	}

	started := time.Now()
	monitor.Start(query)

	result, err := r.resolve(ctx, query, monitor)
	monitor.Finish(query, result, time.Since(started), err)
	return result, err
}

func (r *Resolver) resolve(ctx context.Context, query string, monitor Monitor) (*core.ResolvedCategory, error) {
	query, err := core.ValidateQuery(query)
	if err != nil {
		return nil, err
	}

	normalized, compact := lexical.NormalizeQuery(query)
	match := lexical.BestMatch(r.entries, normalized, compact)
	best := &r.entries[match.Index]
	monitor.AfterLexicalMatch(best, match.Score)

	if match.Score >= LexicalThreshold {
		r.logger.Debug("lexical match", "query", query, "path", best.Path, "score", match.Score)
		result := core.NewResolvedCategory(best)
		result.Match = core.MatchLexical
		result.LexicalScore = match.Score
		return result, nil
	}

	vec, err := r.embedQuery(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}

	pos, distance, err := r.index.Search(vec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	nearest := &r.entries[pos]
	monitor.AfterVectorSearch(nearest, distance)

	if r.strict && distance > r.maxDistance {
		r.logger.Debug("vector match rejected", "query", query, "path", nearest.Path, "distance", distance)
		return nil, fmt.Errorf("%w: nearest %q at distance %.4f exceeds %.4f", ErrNoConfidentMatch, nearest.Path, distance, r.maxDistance)
	}

	r.logger.Debug("vector match", "query", query, "path", nearest.Path, "distance", distance, "lexicalScore", match.Score)
	result := core.NewResolvedCategory(nearest)
	result.Match = core.MatchVector
	result.LexicalScore = match.Score
	result.Distance = distance
	return result, nil
}

// embedQuery embeds the raw query within the per-query timeout, retrying failures.
func (r *Resolver) embedQuery(ctx context.Context, query string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var vec []float32
	err := ai.RetryWithBackoff(ctx, func() error {
		v, err := r.embedder.EmbedText(ctx, query)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return ai.ErrEmptyEmbedding
		}
		vec = v
		return nil
	}, r.retryAttempts, r.retryDelay)
	return vec, err
}

// Lookup returns the entry at path as a result record.
func (r *Resolver) Lookup(path string) (*core.ResolvedCategory, bool) {
	i, ok := r.byPath[path]
	if !ok {
		return nil, false
	}
	return core.NewResolvedCategory(&r.entries[i]), true
}

// Entries returns the flattened taxonomy in pre-order.
func (r *Resolver) Entries() []core.Entry {
	return slices.Clone(r.entries)
}

// Len returns the number of entries.
func (r *Resolver) Len() int {
	return len(r.entries)
}

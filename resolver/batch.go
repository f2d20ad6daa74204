package resolver

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/categorit/core"
)

// BatchResult is the outcome of one query of ResolveBatch.
type BatchResult struct {
	Query    string
	Category *core.ResolvedCategory
	Err      error
}

// ResolveBatch resolves queries concurrently on a bounded worker pool.
// Results are in input order and every query carries its own error; a failing
// query never affects the others. The returned error is only set when the
// worker pool could not be created.
func (r *Resolver) ResolveBatch(ctx context.Context, queries []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(min(r.poolSize, len(queries)))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, query := range queries {
		results[i].Query = query
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i].Category, results[i].Err = r.Resolve(ctx, query)
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()

	r.logger.Debug("batch resolved", "queries", len(queries))
	return results, nil
}

package resolver

import (
	"fmt"
	"log/slog"
	"time"
)

// Defaults for the vector fallback.
const (
	DefaultQueryTimeout  = 10 * time.Second
	DefaultRetryAttempts = 2
	DefaultRetryDelay    = 200 * time.Millisecond
)

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithMonitor sets the monitor notified by Resolve and ResolveBatch.
// ResolveWithMonitor overrides it per call.
func WithMonitor(monitor Monitor) Option {
	return func(r *Resolver) error {
		if monitor == nil {
			monitor = noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// WithQueryTimeout bounds the embedding call of a single query, retries included.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(r *Resolver) error {
		if timeout <= 0 {
			return fmt.Errorf("query timeout must be positive, got %v", timeout)
		}
		r.queryTimeout = timeout
		return nil
	}
}

// WithRetry sets how often a failed query embedding is attempted and the base backoff delay.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(r *Resolver) error {
		if attempts < 1 {
			return fmt.Errorf("retry attempts must be at least 1, got %d", attempts)
		}
		if baseDelay < 0 {
			return fmt.Errorf("retry delay cannot be negative, got %v", baseDelay)
		}
		r.retryAttempts = attempts
		r.retryDelay = baseDelay
		return nil
	}
}

// WithMaxDistance enables strict mode: a vector fallback whose squared distance
// exceeds maxDistance fails with ErrNoConfidentMatch instead of returning the entry.
func WithMaxDistance(maxDistance float32) Option {
	return func(r *Resolver) error {
		if maxDistance < 0 {
			return fmt.Errorf("max distance cannot be negative, got %v", maxDistance)
		}
		r.maxDistance = maxDistance
		r.strict = true
		return nil
	}
}

// WithPoolSize sets the number of workers used by ResolveBatch.
func WithPoolSize(size int) Option {
	return func(r *Resolver) error {
		if size < 1 {
			size = 1
		}
		r.poolSize = size
		return nil
	}
}

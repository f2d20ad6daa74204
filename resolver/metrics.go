package resolver

import (
	"errors"
	"time"

	"github.com/poiesic/categorit/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels used by MetricsMonitor.
const (
	outcomeLexical      = "lexical"
	outcomeVector       = "vector"
	outcomeInvalid      = "invalid_query"
	outcomeEmbedFailed  = "embedding_failed"
	outcomeNotConfident = "no_confident_match"
	outcomeError        = "error"
)

// MetricsMonitor records resolution outcomes as Prometheus metrics.
// It holds no per-query state and is safe to share.
type MetricsMonitor struct {
	resolutions    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	lexicalScore   prometheus.Histogram
	vectorDistance prometheus.Histogram
}

var _ Monitor = (*MetricsMonitor)(nil)

// NewMetricsMonitor registers the resolver metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetricsMonitor(reg prometheus.Registerer) *MetricsMonitor {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &MetricsMonitor{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "categorit",
			Name:      "resolutions_total",
			Help:      "Category resolutions by outcome",
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "categorit",
			Name:      "resolution_duration_seconds",
			Help:      "Time to resolve a query by outcome",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"outcome"}),
		lexicalScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "categorit",
			Name:      "lexical_best_score",
			Help:      "Best lexical score per query",
			Buckets:   prometheus.LinearBuckets(0, 1, 7),
		}),
		vectorDistance: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "categorit",
			Name:      "vector_distance",
			Help:      "Squared L2 distance of vector fallback matches",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}

func (m *MetricsMonitor) Start(string) {}

func (m *MetricsMonitor) AfterLexicalMatch(_ *core.Entry, score int) {
	m.lexicalScore.Observe(float64(score))
}

func (m *MetricsMonitor) AfterVectorSearch(_ *core.Entry, distance float32) {
	m.vectorDistance.Observe(float64(distance))
}

func (m *MetricsMonitor) Finish(_ string, result *core.ResolvedCategory, elapsed time.Duration, err error) {
	outcome := outcomeOf(result, err)
	m.resolutions.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func outcomeOf(result *core.ResolvedCategory, err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		return outcomeInvalid
	case errors.Is(err, ErrEmbeddingFailed):
		return outcomeEmbedFailed
	case errors.Is(err, ErrNoConfidentMatch):
		return outcomeNotConfident
	case err != nil || result == nil:
		return outcomeError
	case result.Match == core.MatchLexical:
		return outcomeLexical
	default:
		return outcomeVector
	}
}

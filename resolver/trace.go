package resolver

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/categorit/core"
)

// TraceMonitor writes each resolution stage to a writer, one line per stage.
type TraceMonitor struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Monitor = (*TraceMonitor)(nil)

// NewTraceMonitor creates a monitor writing to w.
func NewTraceMonitor(w io.Writer) *TraceMonitor {
	return &TraceMonitor{w: w}
}

func (t *TraceMonitor) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}

func (t *TraceMonitor) Start(query string) {
	t.printf("query %q\n", query)
}

func (t *TraceMonitor) AfterLexicalMatch(best *core.Entry, score int) {
	t.printf("  lexical: %s (score %d, threshold %d)\n", best.Path, score, LexicalThreshold)
}

func (t *TraceMonitor) AfterVectorSearch(nearest *core.Entry, distance float32) {
	t.printf("  vector:  %s (distance %.4f)\n", nearest.Path, distance)
}

func (t *TraceMonitor) Finish(_ string, result *core.ResolvedCategory, elapsed time.Duration, err error) {
	if err != nil {
		t.printf("  failed after %v: %v\n", elapsed.Round(time.Microsecond), err)
		return
	}
	t.printf("  resolved to %s via %s in %v\n", result.Path, result.Match, elapsed.Round(time.Microsecond))
}

// Monitors fans every call out to each of monitors in order.
type Monitors []Monitor

var _ Monitor = Monitors(nil)

func (ms Monitors) Start(query string) {
	for _, m := range ms {
		m.Start(query)
	}
}

func (ms Monitors) AfterLexicalMatch(best *core.Entry, score int) {
	for _, m := range ms {
		m.AfterLexicalMatch(best, score)
	}
}

func (ms Monitors) AfterVectorSearch(nearest *core.Entry, distance float32) {
	for _, m := range ms {
		m.AfterVectorSearch(nearest, distance)
	}
}

func (ms Monitors) Finish(query string, result *core.ResolvedCategory, elapsed time.Duration, err error) {
	for _, m := range ms {
		m.Finish(query, result, elapsed, err)
	}
}

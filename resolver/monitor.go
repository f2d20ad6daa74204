package resolver

import (
	"time"

	"github.com/poiesic/categorit/core"
)

// Monitor observes the stages of a single resolution. Implementations shared by
// a Resolver are called from concurrent goroutines and must be thread-safe.
type Monitor interface {
	Start(query string)
	AfterLexicalMatch(best *core.Entry, score int)
	AfterVectorSearch(nearest *core.Entry, distance float32)
	Finish(query string, result *core.ResolvedCategory, elapsed time.Duration, err error)
}

type noopMonitor struct{}

var _ Monitor = noopMonitor{}

func (noopMonitor) Start(string)                                                {}
func (noopMonitor) AfterLexicalMatch(*core.Entry, int)                          {}
func (noopMonitor) AfterVectorSearch(*core.Entry, float32)                      {}
func (noopMonitor) Finish(string, *core.ResolvedCategory, time.Duration, error) {}

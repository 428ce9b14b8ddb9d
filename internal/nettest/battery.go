// Package nettest provides the network test battery the survey loop runs
// after a successful connection: latency, throughput, and path tests.
package nettest

import (
	"context"
	"time"

	"github.com/probelab/wavescout/internal/telemetry"
)

// Result is the uniform outcome record of one network test. Metrics are
// test-specific numeric values keyed by name; the survey loop stores them
// verbatim without interpreting them.
type Result struct {
	Name         string             `json:"name"`
	Success      bool               `json:"success"`
	DurationMs   float64            `json:"duration_ms"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
	Detail       string             `json:"detail,omitempty"`
	ErrorMessage string             `json:"error,omitempty"`
	RanAt        time.Time          `json:"ran_at"`
}

// Test is one runnable network test.
type Test interface {
	Name() string
	Run(ctx context.Context) Result
}

// Battery is an ordered set of tests run sequentially. Concurrent tests
// would contend for the single wireless link and skew each other's
// numbers.
type Battery struct {
	tests []Test
}

// NewBattery creates a battery from the given tests.
func NewBattery(tests ...Test) *Battery {
	return &Battery{tests: tests}
}

// Tests returns the battery's tests in run order.
func (b *Battery) Tests() []Test {
	return b.tests
}

// Run executes every test in order and returns all results. A failing
// test never aborts the battery; its failure is recorded and the next
// test runs.
func (b *Battery) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(b.tests))
	for _, t := range b.tests {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		res := t.Run(ctx)
		telemetry.TestDuration.WithLabelValues(t.Name()).Observe(time.Since(start).Seconds())
		results = append(results, res)
	}
	return results
}

// failure builds a failed Result with a uniform shape.
func failure(name string, start time.Time, msg string) Result {
	return Result{
		Name:         name,
		Success:      false,
		DurationMs:   float64(time.Since(start)) / float64(time.Millisecond),
		ErrorMessage: msg,
		RanAt:        time.Now().UTC(),
	}
}

package nettest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/probelab/wavescout/internal/platform"
)

// Compile-time interface guard.
var _ Test = (*TracerouteTest)(nil)

// TracerouteTest runs the platform traceroute command (tracert on
// Windows) and records the hop count plus the raw trace text.
type TracerouteTest struct {
	runner  platform.Runner
	target  string
	maxHops int
	timeout time.Duration
}

// NewTracerouteTest creates a traceroute test. maxHops defaults to 15
// and timeout to 60s when non-positive.
func NewTracerouteTest(runner platform.Runner, target string, maxHops int, timeout time.Duration) *TracerouteTest {
	if maxHops <= 0 {
		maxHops = 15
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &TracerouteTest{runner: runner, target: target, maxHops: maxHops, timeout: timeout}
}

func (t *TracerouteTest) Name() string { return "traceroute" }

// Run executes tracert with a bounded hop count. Hops are counted as the
// lines that lead with a hop number; the raw output is kept in Detail
// for the report layer.
func (t *TracerouteTest) Run(ctx context.Context) Result {
	start := time.Now()

	args := []string{"-d", "-h", strconv.Itoa(t.maxHops), "-w", "2000", t.target}
	res, err := t.runner.Run(ctx, t.timeout, "tracert", args...)
	if err != nil {
		return failure(t.Name(), start, "tracert: "+err.Error())
	}
	if res.TimedOut {
		return failure(t.Name(), start, "tracert timed out")
	}
	if res.ExitCode != 0 {
		return failure(t.Name(), start, strings.TrimSpace(res.Stderr))
	}

	hops := countHops(res.Stdout)

	return Result{
		Name:       t.Name(),
		Success:    true,
		DurationMs: float64(time.Since(start)) / float64(time.Millisecond),
		Detail:     strings.TrimSpace(res.Stdout),
		Metrics: map[string]float64{
			"hops": float64(hops),
		},
		RanAt: time.Now().UTC(),
	}
}

// countHops counts trace lines that begin with a hop number.
func countHops(output string) int {
	hops := 0
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if isAllDigits(fields[0]) {
			hops++
		}
	}
	return hops
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

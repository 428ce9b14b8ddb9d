package nettest

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Compile-time interface guard.
var _ Test = (*TCPConnectTest)(nil)

// TCPConnectTest measures TCP connection establishment time to a
// host:port target.
type TCPConnectTest struct {
	target  string
	timeout time.Duration
}

// NewTCPConnectTest creates a TCP connect test. timeout defaults to 5s
// when non-positive.
func NewTCPConnectTest(target string, timeout time.Duration) *TCPConnectTest {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TCPConnectTest{target: target, timeout: timeout}
}

func (t *TCPConnectTest) Name() string { return "tcp_connect" }

// Run connects to the target and records connection latency.
func (t *TCPConnectTest) Run(ctx context.Context) Result {
	start := time.Now()

	if _, _, err := net.SplitHostPort(t.target); err != nil {
		return failure(t.Name(), start, fmt.Sprintf("invalid target %q: %v", t.target, err))
	}

	dialer := net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.target)
	elapsed := time.Since(start)
	if err != nil {
		return failure(t.Name(), start, err.Error())
	}
	conn.Close()

	return Result{
		Name:       t.Name(),
		Success:    true,
		DurationMs: float64(elapsed) / float64(time.Millisecond),
		Detail:     t.target,
		Metrics: map[string]float64{
			"connect_ms": float64(elapsed) / float64(time.Millisecond),
		},
		RanAt: time.Now().UTC(),
	}
}

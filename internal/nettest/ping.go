package nettest

import (
	"context"
	"fmt"
	"runtime"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// Compile-time interface guard.
var _ Test = (*PingTest)(nil)

// PingTest sends ICMP echo requests to a target and reports RTT and loss
// statistics.
type PingTest struct {
	target  string
	count   int
	timeout time.Duration
	logger  *zap.Logger
}

// NewPingTest creates a ping test. count defaults to 4 and timeout to 2s
// per packet when non-positive.
func NewPingTest(target string, count int, timeout time.Duration, logger *zap.Logger) *PingTest {
	if count <= 0 {
		count = 4
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &PingTest{target: target, count: count, timeout: timeout, logger: logger}
}

func (t *PingTest) Name() string { return "ping" }

// Run executes the ping via the pro-bing library. Windows requires
// privileged (raw socket) mode.
func (t *PingTest) Run(ctx context.Context) Result {
	start := time.Now()

	pinger, err := probing.NewPinger(t.target)
	if err != nil {
		return failure(t.Name(), start, fmt.Sprintf("create pinger: %v", err))
	}

	pinger.Count = t.count
	pinger.Timeout = time.Duration(t.count) * t.timeout
	pinger.SetPrivileged(runtime.GOOS == "windows")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			t.logger.Debug("ping run error", zap.String("target", t.target), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return failure(t.Name(), start, ctx.Err().Error())
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return failure(t.Name(), start, fmt.Sprintf("no replies from %s (%d sent)", t.target, stats.PacketsSent))
	}

	return Result{
		Name:       t.Name(),
		Success:    true,
		DurationMs: float64(time.Since(start)) / float64(time.Millisecond),
		Detail:     t.target,
		Metrics: map[string]float64{
			"sent":        float64(stats.PacketsSent),
			"received":    float64(stats.PacketsRecv),
			"packet_loss": stats.PacketLoss,
			"min_rtt_ms":  float64(stats.MinRtt.Microseconds()) / 1000.0,
			"avg_rtt_ms":  float64(stats.AvgRtt.Microseconds()) / 1000.0,
			"max_rtt_ms":  float64(stats.MaxRtt.Microseconds()) / 1000.0,
		},
		RanAt: time.Now().UTC(),
	}
}

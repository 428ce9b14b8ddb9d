package nettest

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/probelab/wavescout/internal/platform"
)

// Compile-time interface guard.
var _ Test = (*Iperf3Test)(nil)

// Iperf3Test measures throughput against an iperf3 server using the
// iperf3 binary's JSON output mode.
type Iperf3Test struct {
	runner   platform.Runner
	server   string
	port     int
	duration int
	timeout  time.Duration
}

// NewIperf3Test creates an iperf3 test against server:port. duration is
// the measurement window in seconds (default 5); timeout bounds the whole
// invocation (default duration + 30s).
func NewIperf3Test(runner platform.Runner, server string, port, duration int, timeout time.Duration) *Iperf3Test {
	if port <= 0 {
		port = 5201
	}
	if duration <= 0 {
		duration = 5
	}
	if timeout <= 0 {
		timeout = time.Duration(duration)*time.Second + 30*time.Second
	}
	return &Iperf3Test{runner: runner, server: server, port: port, duration: duration, timeout: timeout}
}

func (t *Iperf3Test) Name() string { return "iperf3" }

// iperf3Output is the subset of iperf3 -J output we read.
type iperf3Output struct {
	End struct {
		SumSent struct {
			BitsPerSecond float64 `json:"bits_per_second"`
			Retransmits   int     `json:"retransmits"`
		} `json:"sum_sent"`
		SumReceived struct {
			BitsPerSecond float64 `json:"bits_per_second"`
		} `json:"sum_received"`
	} `json:"end"`
	Error string `json:"error"`
}

// Run invokes iperf3 in client mode and parses the JSON summary.
func (t *Iperf3Test) Run(ctx context.Context) Result {
	start := time.Now()

	args := []string{
		"-c", t.server,
		"-p", strconv.Itoa(t.port),
		"-t", strconv.Itoa(t.duration),
		"-J",
	}
	res, err := t.runner.Run(ctx, t.timeout, "iperf3", args...)
	if err != nil {
		return failure(t.Name(), start, "iperf3: "+err.Error())
	}
	if res.TimedOut {
		return failure(t.Name(), start, "iperf3 timed out")
	}

	// iperf3 reports errors inside the JSON document even on non-zero
	// exit, so parse before checking the exit code.
	var out iperf3Output
	if jsonErr := json.Unmarshal([]byte(res.Stdout), &out); jsonErr != nil {
		diag := strings.TrimSpace(res.Stderr)
		if diag == "" {
			diag = "unparseable iperf3 output"
		}
		return failure(t.Name(), start, diag)
	}
	if out.Error != "" {
		return failure(t.Name(), start, out.Error)
	}
	if res.ExitCode != 0 {
		return failure(t.Name(), start, "iperf3 exited "+strconv.Itoa(res.ExitCode))
	}

	return Result{
		Name:       t.Name(),
		Success:    true,
		DurationMs: float64(time.Since(start)) / float64(time.Millisecond),
		Detail:     t.server,
		Metrics: map[string]float64{
			"upload_mbps":   out.End.SumSent.BitsPerSecond / 1e6,
			"download_mbps": out.End.SumReceived.BitsPerSecond / 1e6,
			"retransmits":   float64(out.End.SumSent.Retransmits),
		},
		RanAt: time.Now().UTC(),
	}
}

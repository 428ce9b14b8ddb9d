package nettest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/probelab/wavescout/internal/platform"
)

// Compile-time interface guard.
var _ platform.Runner = (*fakeCmdRunner)(nil)

// fakeCmdRunner returns one scripted result for any command.
type fakeCmdRunner struct {
	result    platform.Result
	launchErr error
	lastName  string
	lastArgs  []string
}

func (f *fakeCmdRunner) Run(_ context.Context, _ time.Duration, name string, args ...string) (platform.Result, error) {
	f.lastName = name
	f.lastArgs = args
	if f.launchErr != nil {
		return platform.Result{}, f.launchErr
	}
	return f.result, nil
}

const tracertOutput = `
Tracing route to 8.8.8.8 over a maximum of 15 hops

  1     2 ms     1 ms     1 ms  192.168.1.1
  2    12 ms    11 ms    14 ms  100.64.0.1
  3    15 ms    13 ms    13 ms  8.8.8.8

Trace complete.
`

func TestTracerouteParsesHops(t *testing.T) {
	runner := &fakeCmdRunner{result: platform.Result{Stdout: tracertOutput}}
	res := NewTracerouteTest(runner, "8.8.8.8", 15, time.Minute).Run(context.Background())

	if !res.Success {
		t.Fatalf("traceroute failed: %s", res.ErrorMessage)
	}
	if got := res.Metrics["hops"]; got != 3 {
		t.Errorf("hops = %.0f, want 3", got)
	}
	if runner.lastName != "tracert" {
		t.Errorf("command = %q, want tracert", runner.lastName)
	}
}

func TestTracerouteTimeout(t *testing.T) {
	runner := &fakeCmdRunner{result: platform.Result{TimedOut: true, ExitCode: -1}}
	res := NewTracerouteTest(runner, "8.8.8.8", 0, 0).Run(context.Background())

	if res.Success {
		t.Error("timed-out traceroute reported success")
	}
	if res.ErrorMessage == "" {
		t.Error("timeout must carry an error message")
	}
}

func TestTracerouteLaunchFailure(t *testing.T) {
	runner := &fakeCmdRunner{launchErr: errors.New("tracert not found")}
	res := NewTracerouteTest(runner, "8.8.8.8", 0, 0).Run(context.Background())

	if res.Success {
		t.Error("missing binary reported success")
	}
}

func TestCountHops(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
	}{
		{"normal trace", tracertOutput, 3},
		{"empty", "", 0},
		{"no hop lines", "Trace complete.\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countHops(tt.output); got != tt.want {
				t.Errorf("countHops = %d, want %d", got, tt.want)
			}
		})
	}
}

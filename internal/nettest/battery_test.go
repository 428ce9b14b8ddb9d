package nettest

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

// Compile-time interface guard for the scripted test.
var _ Test = (*scriptedTest)(nil)

type scriptedTest struct {
	name string
	ok   bool
	runs int
}

func (s *scriptedTest) Name() string { return s.name }

func (s *scriptedTest) Run(_ context.Context) Result {
	s.runs++
	return Result{Name: s.name, Success: s.ok, RanAt: time.Now().UTC()}
}

func TestBatteryRunsAllTestsInOrder(t *testing.T) {
	a := &scriptedTest{name: "a", ok: true}
	b := &scriptedTest{name: "b", ok: false}
	c := &scriptedTest{name: "c", ok: true}

	results := NewBattery(a, b, c).Run(context.Background())

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (a failing test must not stop the battery)", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].Name != want {
			t.Errorf("results[%d].Name = %q, want %q", i, results[i].Name, want)
		}
	}
	if results[1].Success {
		t.Error("failing test reported success")
	}
}

func TestBatteryStopsOnCancelledContext(t *testing.T) {
	a := &scriptedTest{name: "a", ok: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBattery(a).Run(ctx)
	if len(results) != 0 {
		t.Errorf("got %d results on cancelled context, want 0", len(results))
	}
	if a.runs != 0 {
		t.Errorf("test ran %d times on cancelled context", a.runs)
	}
}

func TestTCPConnectTestInvalidTarget(t *testing.T) {
	res := NewTCPConnectTest("no-port-here", time.Second).Run(context.Background())
	if res.Success {
		t.Error("invalid target reported success")
	}
	if res.ErrorMessage == "" {
		t.Error("invalid target must carry an error message")
	}
	if res.Name != "tcp_connect" {
		t.Errorf("Name = %q, want tcp_connect", res.Name)
	}
}

func TestPingTestDefaults(t *testing.T) {
	p := NewPingTest("192.0.2.1", 0, 0, zap.NewNop())
	if p.count != 4 {
		t.Errorf("default count = %d, want 4", p.count)
	}
	if p.timeout != 2*time.Second {
		t.Errorf("default timeout = %v, want 2s", p.timeout)
	}
	if p.Name() != "ping" {
		t.Errorf("Name = %q, want ping", p.Name())
	}
}

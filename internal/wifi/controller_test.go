package wifi

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestController(runner *fakeRunner) *Controller {
	return NewController(runner, newTestParser(), ControllerConfig{
		ConnectTimeout:     time.Second,
		StabilizationDelay: time.Millisecond,
		QueryTimeout:       time.Second,
	}, zap.NewNop())
}

func TestControllerConnectSuccess(t *testing.T) {
	runner := &fakeRunner{interfacesOut: interfacesEN}
	c := newTestController(runner)

	res := c.Connect(context.Background(), "HomeNet")
	if !res.Success {
		t.Fatalf("connect failed: %s", res.Diagnostic)
	}
	if c.State() != StateConnected {
		t.Errorf("state = %q, want connected", c.State())
	}
	if runner.connectCalls != 1 {
		t.Errorf("connectCalls = %d, want 1", runner.connectCalls)
	}
}

func TestControllerConnectFailureNonZeroExit(t *testing.T) {
	runner := &fakeRunner{
		connectExit:   1,
		connectStderr: "There is no profile \"HiddenNet\" assigned to the specified interface.",
	}
	c := newTestController(runner)

	res := c.Connect(context.Background(), "HiddenNet")
	if res.Success {
		t.Fatal("connect reported success on non-zero exit")
	}
	if res.Diagnostic == "" {
		t.Error("failed connect must carry a diagnostic")
	}
	if c.State() != StateConnectFailed {
		t.Errorf("state = %q, want connect_failed", c.State())
	}

	// Observed ground truth after the failure: no SSID field means the
	// explicit no-connection result, never a raised error.
	runner.interfacesOut = interfacesDisconnectedEN
	_, err := c.Current(context.Background())
	if !errors.Is(err, ErrNoConnection) {
		t.Errorf("Current() err = %v, want ErrNoConnection", err)
	}
}

func TestControllerConnectVerifiesObservedSSID(t *testing.T) {
	// Platform accepts the connect but the interface ends up associated
	// with a different network.
	runner := &fakeRunner{interfacesOut: interfacesEN}
	c := newTestController(runner)

	res := c.Connect(context.Background(), "OtherNet")
	if res.Success {
		t.Fatal("connect must fail when the observed SSID differs")
	}
	if res.Diagnostic == "" {
		t.Error("mismatch diagnostic missing")
	}
}

func TestControllerConnectLaunchFailure(t *testing.T) {
	runner := &fakeRunner{launchErr: errors.New("netsh: executable file not found")}
	c := newTestController(runner)

	res := c.Connect(context.Background(), "HomeNet")
	if res.Success {
		t.Fatal("connect reported success when the platform binary is missing")
	}
	if res.Diagnostic == "" {
		t.Error("launch failure must carry a diagnostic")
	}
}

func TestControllerDisconnectIdempotent(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestController(runner)

	if !c.Disconnect(context.Background()) {
		t.Error("first disconnect failed")
	}
	if !c.Disconnect(context.Background()) {
		t.Error("repeat disconnect failed; disconnecting while disconnected is not an error")
	}
	if c.State() != StateDisconnected {
		t.Errorf("state = %q, want disconnected", c.State())
	}
}

func TestControllerCurrentQueryFailure(t *testing.T) {
	runner := &fakeRunner{launchErr: errors.New("exec format error")}
	c := newTestController(runner)

	_, err := c.Current(context.Background())
	if !errors.Is(err, ErrNoConnection) {
		t.Errorf("query failure err = %v, want ErrNoConnection", err)
	}
}

package nettest

import (
	"context"
	"testing"

	"github.com/probelab/wavescout/internal/platform"
)

const iperfJSON = `{
	"end": {
		"sum_sent": {"bits_per_second": 94500000.0, "retransmits": 12},
		"sum_received": {"bits_per_second": 93100000.0}
	}
}`

func TestIperf3ParsesSummary(t *testing.T) {
	runner := &fakeCmdRunner{result: platform.Result{Stdout: iperfJSON}}
	res := NewIperf3Test(runner, "192.168.1.10", 5201, 5, 0).Run(context.Background())

	if !res.Success {
		t.Fatalf("iperf3 failed: %s", res.ErrorMessage)
	}
	if got := res.Metrics["upload_mbps"]; got != 94.5 {
		t.Errorf("upload_mbps = %.2f, want 94.50", got)
	}
	if got := res.Metrics["download_mbps"]; got != 93.1 {
		t.Errorf("download_mbps = %.2f, want 93.10", got)
	}
	if got := res.Metrics["retransmits"]; got != 12 {
		t.Errorf("retransmits = %.0f, want 12", got)
	}
}

func TestIperf3ServerError(t *testing.T) {
	runner := &fakeCmdRunner{result: platform.Result{
		ExitCode: 1,
		Stdout:   `{"error": "unable to connect to server: Connection refused"}`,
	}}
	res := NewIperf3Test(runner, "192.168.1.10", 0, 0, 0).Run(context.Background())

	if res.Success {
		t.Fatal("refused connection reported success")
	}
	if res.ErrorMessage != "unable to connect to server: Connection refused" {
		t.Errorf("ErrorMessage = %q, want the iperf3 error field", res.ErrorMessage)
	}
}

func TestIperf3UnparseableOutput(t *testing.T) {
	runner := &fakeCmdRunner{result: platform.Result{Stdout: "not json", ExitCode: 1, Stderr: "broken pipe"}}
	res := NewIperf3Test(runner, "192.168.1.10", 0, 0, 0).Run(context.Background())

	if res.Success {
		t.Fatal("unparseable output reported success")
	}
	if res.ErrorMessage != "broken pipe" {
		t.Errorf("ErrorMessage = %q, want stderr fallback", res.ErrorMessage)
	}
}

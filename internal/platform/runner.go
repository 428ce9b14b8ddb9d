// Package platform wraps external OS command execution behind a small
// interface so the survey core can be tested without a real wireless stack.
package platform

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Result carries the outcome of one external command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// Success reports whether the command ran to completion with exit code 0.
func (r Result) Success() bool {
	return !r.TimedOut && r.ExitCode == 0
}

// Runner executes external platform commands with a bounded timeout.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error)
}

// Compile-time interface guard.
var _ Runner = (*ExecRunner)(nil)

// ExecRunner runs commands via os/exec. Non-zero exit codes are reported
// in the Result, not as errors; the error return is reserved for failures
// to launch the process at all (binary missing, context cancelled early).
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Run executes name with args, capturing stdout and stderr separately.
// The command is killed when the timeout elapses; the Result then has
// TimedOut set so callers can distinguish timeouts from failures.
func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		r.logger.Debug("command timed out",
			zap.String("command", name),
			zap.Duration("timeout", timeout),
		)
		return res, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		// Launch failure: binary missing, permission denied, etc.
		return res, err
	}

	res.ExitCode = 0
	return res, nil
}

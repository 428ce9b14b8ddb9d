package wifi

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/probelab/wavescout/internal/platform"
	"github.com/probelab/wavescout/internal/telemetry"
)

// ConnState labels the controller's last attempted transition. Observed
// ground truth can diverge (the user may disconnect manually); callers
// making correctness-critical decisions should query Current instead.
type ConnState string

const (
	StateDisconnected  ConnState = "disconnected"
	StateConnecting    ConnState = "connecting"
	StateConnected     ConnState = "connected"
	StateConnectFailed ConnState = "connect_failed"
)

// ConnectResult is the outcome of one connection attempt.
type ConnectResult struct {
	SSID       string        `json:"ssid"`
	Success    bool          `json:"success"`
	Duration   time.Duration `json:"duration"`
	Diagnostic string        `json:"diagnostic,omitempty"`
}

// ControllerConfig holds the construction-time settings of the controller.
type ControllerConfig struct {
	// ConnectTimeout bounds each connect/disconnect platform command.
	ConnectTimeout time.Duration

	// StabilizationDelay is how long to wait after issuing a connect
	// before trusting the association to have settled.
	StabilizationDelay time.Duration

	// QueryTimeout bounds the current-connection query.
	QueryTimeout time.Duration
}

// Controller drives the at-most-one-active-connection state machine.
// Strictly sequential: the radio supports one association at a time.
type Controller struct {
	runner platform.Runner
	parser *Parser
	logger *zap.Logger
	cfg    ControllerConfig

	state ConnState
}

// NewController creates a Controller. Zero durations fall back to
// defaults (10s commands, 5s stabilization, 10s queries).
func NewController(runner platform.Runner, parser *Parser, cfg ControllerConfig, logger *zap.Logger) *Controller {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.StabilizationDelay <= 0 {
		cfg.StabilizationDelay = 5 * time.Second
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 10 * time.Second
	}
	return &Controller{
		runner: runner,
		parser: parser,
		logger: logger,
		cfg:    cfg,
		state:  StateDisconnected,
	}
}

// State returns the label of the last attempted transition.
func (c *Controller) State() ConnState {
	return c.state
}

// Connect drops any current association and attempts to associate with
// the named network (saved profile name or open SSID). Platform failures
// of every kind are converted into a failed result; surveys routinely
// meet unreachable or protected networks and must keep going.
func (c *Controller) Connect(ctx context.Context, ssid string) ConnectResult {
	c.state = StateConnecting
	start := time.Now()

	fail := func(diag string) ConnectResult {
		c.state = StateConnectFailed
		telemetry.ConnectAttempts.WithLabelValues("failed").Inc()
		c.logger.Warn("connect failed",
			zap.String("ssid", ssid),
			zap.String("diagnostic", diag),
		)
		return ConnectResult{
			SSID:       ssid,
			Success:    false,
			Duration:   time.Since(start),
			Diagnostic: diag,
		}
	}

	// Best-effort disconnect first so the connect starts from a clean
	// association state.
	c.Disconnect(ctx)

	res, err := c.runner.Run(ctx, c.cfg.ConnectTimeout, platform.NetshCommand, platform.ConnectArgs(ssid)...)
	if err != nil {
		return fail("connect command: " + err.Error())
	}
	if res.TimedOut {
		return fail("connect command timed out")
	}
	if res.ExitCode != 0 {
		diag := strings.TrimSpace(res.Stderr)
		if diag == "" {
			diag = strings.TrimSpace(res.Stdout)
		}
		if diag == "" {
			diag = "connect command failed"
		}
		return fail(diag)
	}

	// Let DHCP and the association settle before declaring success.
	select {
	case <-ctx.Done():
		return fail("cancelled during stabilization: " + ctx.Err().Error())
	case <-time.After(c.cfg.StabilizationDelay):
	}

	// Verify against observed state: the connect command succeeding only
	// means the request was accepted.
	info, err := c.Current(ctx)
	if err != nil {
		return fail("no connection after connect: " + err.Error())
	}
	if info.SSID != ssid {
		return fail("associated with " + info.SSID + " instead of " + ssid)
	}

	c.state = StateConnected
	telemetry.ConnectAttempts.WithLabelValues("connected").Inc()
	c.logger.Info("connected",
		zap.String("ssid", ssid),
		zap.Duration("took", time.Since(start)),
	)
	return ConnectResult{
		SSID:     ssid,
		Success:  true,
		Duration: time.Since(start),
	}
}

// Disconnect drops the current association. Idempotent; disconnecting
// while already disconnected reports success.
func (c *Controller) Disconnect(ctx context.Context) bool {
	res, err := c.runner.Run(ctx, c.cfg.ConnectTimeout, platform.NetshCommand, platform.DisconnectArgs()...)
	c.state = StateDisconnected
	if err != nil {
		c.logger.Warn("disconnect command failed", zap.Error(err))
		return false
	}
	return res.Success()
}

// Current queries and parses the observed association. Returns
// ErrNoConnection when the platform reports no active network, which is
// an expected state and not a failure.
func (c *Controller) Current(ctx context.Context) (*ConnectionInfo, error) {
	res, err := c.runner.Run(ctx, c.cfg.QueryTimeout, platform.NetshCommand, platform.ShowInterfacesArgs()...)
	if err != nil {
		return nil, ErrNoConnection
	}
	if !res.Success() {
		return nil, ErrNoConnection
	}
	return c.parser.ParseCurrentConnection(res.Stdout)
}

package survey

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/probelab/wavescout/internal/nettest"
	"github.com/probelab/wavescout/internal/telemetry"
	"github.com/probelab/wavescout/internal/wifi"
)

// Scanner provides the access point inventory.
type Scanner interface {
	Scan(ctx context.Context, forceRefresh bool) ([]wifi.AccessPointRecord, error)
}

// Connector drives the single wireless association.
type Connector interface {
	Connect(ctx context.Context, ssid string) wifi.ConnectResult
	Disconnect(ctx context.Context) bool
	Current(ctx context.Context) (*wifi.ConnectionInfo, error)
}

// Battery runs the network tests after a successful connection.
type Battery interface {
	Run(ctx context.Context) []nettest.Result
}

// Compile-time interface guards against the concrete collaborators.
var (
	_ Scanner   = (*wifi.Inventory)(nil)
	_ Connector = (*wifi.Controller)(nil)
	_ Battery   = (*nettest.Battery)(nil)
)

// Surveyor owns the per-session survey state and runs full passes over
// the visible network set. Not safe for concurrent use; the underlying
// radio only supports one association at a time, so all operations are
// strictly sequential.
type Surveyor struct {
	scanner   Scanner
	connector Connector
	battery   Battery
	logger    *zap.Logger

	// tested tracks SSIDs already attempted in the current pass.
	// An SSID is attempted at most once per pass, successful or not.
	tested map[string]struct{}
}

// NewSurveyor creates a Surveyor. battery may be nil when the caller
// never requests tests.
func NewSurveyor(scanner Scanner, connector Connector, battery Battery, logger *zap.Logger) *Surveyor {
	return &Surveyor{
		scanner:   scanner,
		connector: connector,
		battery:   battery,
		logger:    logger,
		tested:    make(map[string]struct{}),
	}
}

// Tested returns the SSIDs attempted so far in the current pass.
func (s *Surveyor) Tested() []string {
	out := make([]string, 0, len(s.tested))
	for ssid := range s.tested {
		out = append(out, ssid)
	}
	return out
}

// ResetPass clears the tested set so the next pass revisits every
// visible network. Callers running continuously invoke this on a
// periodic cadence.
func (s *Surveyor) ResetPass() {
	s.tested = make(map[string]struct{})
	s.logger.Debug("survey pass state reset")
}

// RunFullSurvey performs one pass: a forced scan, then one attempt per
// untested candidate. A candidate's failure never aborts the pass; the
// loop records it and moves on. Failed candidates are not retried within
// the same pass.
func (s *Surveyor) RunFullSurvey(ctx context.Context, runTests bool) ([]Result, error) {
	networks, err := s.scanner.Scan(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("survey scan: %w", err)
	}

	passID := uuid.NewString()
	s.logger.Info("survey pass started",
		zap.String("pass_id", passID),
		zap.Int("visible", len(networks)),
		zap.Int("already_tested", len(s.tested)),
	)

	results := make([]Result, 0, len(networks))
	for i := range networks {
		if ctx.Err() != nil {
			break
		}
		ap := networks[i]

		if _, done := s.tested[ap.SSID]; done {
			continue
		}
		s.tested[ap.SSID] = struct{}{}

		res := newResult(passID, ap)

		if !ap.Connectable() {
			res.Skipped = true
			res.SkipReason = "not connectable: network is protected and no saved profile exists"
			s.logger.Debug("skipping network",
				zap.String("ssid", ap.SSID),
				zap.String("reason", res.SkipReason),
			)
			results = append(results, res)
			continue
		}

		connect := s.connector.Connect(ctx, ap.SSID)
		res.Connect = &connect

		if connect.Success {
			if runTests && s.battery != nil {
				res.Tests = s.battery.Run(ctx)
			}
			s.connector.Disconnect(ctx)
		}

		results = append(results, res)
	}

	telemetry.SurveyPasses.Inc()
	s.logger.Info("survey pass finished",
		zap.String("pass_id", passID),
		zap.Int("results", len(results)),
	)
	return results, nil
}

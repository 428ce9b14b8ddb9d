// Package survey orchestrates scan, connect, test, and disconnect cycles
// over the set of currently visible wireless networks.
package survey

import (
	"time"

	"github.com/google/uuid"

	"github.com/probelab/wavescout/internal/nettest"
	"github.com/probelab/wavescout/internal/wifi"
)

// Result records one candidate network's outcome within a survey pass.
// Exactly one of the three shapes applies: skipped (no attempt made),
// connect failure (attempted, no tests), or connected (tests ran when
// requested).
type Result struct {
	ID          string                 `json:"id"`
	PassID      string                 `json:"pass_id"`
	AccessPoint wifi.AccessPointRecord `json:"access_point"`
	Skipped     bool                   `json:"skipped"`
	SkipReason  string                 `json:"skip_reason,omitempty"`
	Connect     *wifi.ConnectResult    `json:"connect,omitempty"`
	Tests       []nettest.Result       `json:"tests,omitempty"`
	RecordedAt  time.Time              `json:"recorded_at"`
}

// newResult stamps a Result with identity and time.
func newResult(passID string, ap wifi.AccessPointRecord) Result {
	return Result{
		ID:          uuid.NewString(),
		PassID:      passID,
		AccessPoint: ap,
		RecordedAt:  time.Now().UTC(),
	}
}

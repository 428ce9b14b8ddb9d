package survey

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/probelab/wavescout/internal/nettest"
	"github.com/probelab/wavescout/internal/wifi"
)

// Compile-time interface guards for the fakes.
var (
	_ Scanner   = (*fakeScanner)(nil)
	_ Connector = (*fakeConnector)(nil)
	_ Battery   = (*fakeBattery)(nil)
)

type fakeScanner struct {
	records []wifi.AccessPointRecord
	err     error
	calls   int
}

func (f *fakeScanner) Scan(_ context.Context, _ bool) ([]wifi.AccessPointRecord, error) {
	f.calls++
	return f.records, f.err
}

type fakeConnector struct {
	failSSIDs   map[string]bool
	connects    []string
	disconnects int
}

func (f *fakeConnector) Connect(_ context.Context, ssid string) wifi.ConnectResult {
	f.connects = append(f.connects, ssid)
	if f.failSSIDs[ssid] {
		return wifi.ConnectResult{SSID: ssid, Success: false, Diagnostic: "association timed out"}
	}
	return wifi.ConnectResult{SSID: ssid, Success: true, Duration: 10 * time.Millisecond}
}

func (f *fakeConnector) Disconnect(_ context.Context) bool {
	f.disconnects++
	return true
}

func (f *fakeConnector) Current(_ context.Context) (*wifi.ConnectionInfo, error) {
	return nil, wifi.ErrNoConnection
}

type fakeBattery struct {
	runs int
}

func (f *fakeBattery) Run(_ context.Context) []nettest.Result {
	f.runs++
	return []nettest.Result{{Name: "ping", Success: true}}
}

func openAP(ssid string) wifi.AccessPointRecord {
	return wifi.AccessPointRecord{SSID: ssid, BSSID: "aa:aa:aa:aa:aa:01", IsOpen: true}
}

func protectedAP(ssid string) wifi.AccessPointRecord {
	return wifi.AccessPointRecord{SSID: ssid, BSSID: "bb:bb:bb:bb:bb:02"}
}

func newTestSurveyor(scanner Scanner, connector Connector, battery Battery) *Surveyor {
	return NewSurveyor(scanner, connector, battery, zap.NewNop())
}

func TestRunFullSurveyContinuesPastFailures(t *testing.T) {
	scanner := &fakeScanner{records: []wifi.AccessPointRecord{
		openAP("First"), openAP("Second"), openAP("Third"),
	}}
	connector := &fakeConnector{failSSIDs: map[string]bool{"Second": true}}
	battery := &fakeBattery{}
	s := newTestSurveyor(scanner, connector, battery)

	results, err := s.RunFullSurvey(context.Background(), true)
	if err != nil {
		t.Fatalf("survey: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (failure must not abort the pass)", len(results))
	}

	if len(connector.connects) != 3 {
		t.Errorf("connects = %v, want all three attempted", connector.connects)
	}
	if results[1].Connect == nil || results[1].Connect.Success {
		t.Error("second result should record the failed connect")
	}
	if results[2].Connect == nil || !results[2].Connect.Success {
		t.Error("third network was not attempted after the failure")
	}
	// Tests only run on successful connections.
	if battery.runs != 2 {
		t.Errorf("battery runs = %d, want 2", battery.runs)
	}
	// Every successful connection is followed by a disconnect.
	if connector.disconnects != 2 {
		t.Errorf("disconnects = %d, want 2", connector.disconnects)
	}
}

func TestRunFullSurveySkipsNonConnectable(t *testing.T) {
	scanner := &fakeScanner{records: []wifi.AccessPointRecord{
		protectedAP("Locked"), openAP("Free"),
	}}
	connector := &fakeConnector{}
	s := newTestSurveyor(scanner, connector, &fakeBattery{})

	results, err := s.RunFullSurvey(context.Background(), true)
	if err != nil {
		t.Fatalf("survey: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if !results[0].Skipped || results[0].SkipReason == "" {
		t.Error("protected network without profile must be recorded as skipped")
	}
	if results[0].Connect != nil {
		t.Error("skipped network must not carry a connect result")
	}
	if len(connector.connects) != 1 || connector.connects[0] != "Free" {
		t.Errorf("connects = %v, want only Free", connector.connects)
	}
}

func TestRunFullSurveyAttemptsEachSSIDOncePerPass(t *testing.T) {
	scanner := &fakeScanner{records: []wifi.AccessPointRecord{openAP("OnlyNet")}}
	connector := &fakeConnector{failSSIDs: map[string]bool{"OnlyNet": true}}
	s := newTestSurveyor(scanner, connector, nil)

	first, err := s.RunFullSurvey(context.Background(), false)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first pass results = %d, want 1", len(first))
	}

	// Same visible set, same pass state: nothing left to attempt,
	// failed or not.
	second, err := s.RunFullSurvey(context.Background(), false)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second pass results = %d, want 0", len(second))
	}
	if len(connector.connects) != 1 {
		t.Errorf("connects = %d, want 1 (at most one attempt per pass)", len(connector.connects))
	}
}

func TestResetPassAllowsReattempt(t *testing.T) {
	scanner := &fakeScanner{records: []wifi.AccessPointRecord{openAP("OnlyNet")}}
	connector := &fakeConnector{}
	s := newTestSurveyor(scanner, connector, nil)

	if _, err := s.RunFullSurvey(context.Background(), false); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	s.ResetPass()

	results, err := s.RunFullSurvey(context.Background(), false)
	if err != nil {
		t.Fatalf("pass after reset: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results after reset, want 1", len(results))
	}
	if len(connector.connects) != 2 {
		t.Errorf("connects = %d, want 2", len(connector.connects))
	}
}

func TestRunFullSurveyScanFailure(t *testing.T) {
	scanner := &fakeScanner{err: errors.New("netsh timed out")}
	s := newTestSurveyor(scanner, &fakeConnector{}, nil)

	if _, err := s.RunFullSurvey(context.Background(), false); err == nil {
		t.Error("scan failure must surface to the caller")
	}
}

func TestRunFullSurveyWithoutTests(t *testing.T) {
	scanner := &fakeScanner{records: []wifi.AccessPointRecord{openAP("NoTestNet")}}
	battery := &fakeBattery{}
	s := newTestSurveyor(scanner, &fakeConnector{}, battery)

	results, err := s.RunFullSurvey(context.Background(), false)
	if err != nil {
		t.Fatalf("survey: %v", err)
	}
	if battery.runs != 0 {
		t.Errorf("battery ran %d times with runTests=false, want 0", battery.runs)
	}
	if len(results) != 1 || len(results[0].Tests) != 0 {
		t.Error("result must not carry tests when runTests=false")
	}
}

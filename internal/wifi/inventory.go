package wifi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/probelab/wavescout/internal/platform"
	"github.com/probelab/wavescout/internal/telemetry"
)

// InventoryConfig holds the construction-time settings of the inventory.
type InventoryConfig struct {
	// MonitoredSSIDs restricts scan results to these networks.
	// Empty means monitor everything.
	MonitoredSSIDs []string

	// CacheTTL is how long a scan result stays fresh. Scan calls inside
	// the window are served from cache unless forced.
	CacheTTL time.Duration

	// ScanTimeout bounds each platform listing command.
	ScanTimeout time.Duration

	// MaxScanRate caps forced platform scans; netsh itself rate-limits
	// radio scans, so hammering it only returns stale data anyway.
	MaxScanRate rate.Limit
}

// Inventory maintains the per-scan access point collection with a TTL
// cache so repeated callers do not trigger redundant platform scans.
type Inventory struct {
	runner  platform.Runner
	parser  *Parser
	logger  *zap.Logger
	cfg     InventoryConfig
	limiter *rate.Limiter
	now     func() time.Time

	monitored map[string]struct{}

	mu       sync.Mutex
	cached   []AccessPointRecord
	lastScan time.Time
}

// NewInventory creates an Inventory. Zero durations fall back to
// defaults (30s TTL, 15s scan timeout, one forced scan per 2 seconds).
func NewInventory(runner platform.Runner, parser *Parser, cfg InventoryConfig, logger *zap.Logger) *Inventory {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if cfg.ScanTimeout <= 0 {
		cfg.ScanTimeout = 15 * time.Second
	}
	if cfg.MaxScanRate <= 0 {
		cfg.MaxScanRate = rate.Every(2 * time.Second)
	}

	monitored := make(map[string]struct{}, len(cfg.MonitoredSSIDs))
	for _, ssid := range cfg.MonitoredSSIDs {
		if ssid != "" {
			monitored[ssid] = struct{}{}
		}
	}

	return &Inventory{
		runner:    runner,
		parser:    parser,
		logger:    logger,
		cfg:       cfg,
		limiter:   rate.NewLimiter(cfg.MaxScanRate, 1),
		now:       time.Now,
		monitored: monitored,
	}
}

// Scan returns the currently visible access points. When forceRefresh is
// false and the cache is younger than the TTL, the cached slice is
// returned without touching the platform. An empty listing is a valid
// result and still refreshes the cache.
func (inv *Inventory) Scan(ctx context.Context, forceRefresh bool) ([]AccessPointRecord, error) {
	inv.mu.Lock()
	if !forceRefresh && inv.cached != nil && inv.now().Sub(inv.lastScan) < inv.cfg.CacheTTL {
		cached := inv.cached
		inv.mu.Unlock()
		telemetry.ScanCacheHits.Inc()
		inv.logger.Debug("scan served from cache",
			zap.Int("networks", len(cached)),
			zap.Time("scanned_at", inv.lastScan),
		)
		return cached, nil
	}
	inv.mu.Unlock()

	if err := inv.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("scan rate limit: %w", err)
	}

	res, err := inv.runner.Run(ctx, inv.cfg.ScanTimeout, platform.NetshCommand, platform.ShowNetworksArgs()...)
	if err != nil {
		telemetry.ScansTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("network listing: %w", err)
	}
	if res.TimedOut {
		telemetry.ScansTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("network listing timed out after %s", inv.cfg.ScanTimeout)
	}
	if res.ExitCode != 0 {
		telemetry.ScansTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("network listing exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	records := inv.parser.ParseNetworkListing(res.Stdout, inv.monitored)
	inv.markSaved(ctx, records)

	inv.mu.Lock()
	inv.cached = records
	inv.lastScan = inv.now()
	inv.mu.Unlock()

	telemetry.ScansTotal.WithLabelValues("ok").Inc()
	telemetry.AccessPointsSeen.Set(float64(len(records)))
	inv.logger.Info("scan complete", zap.Int("networks", len(records)))

	return records, nil
}

// LastScan returns the cached records and the time they were captured.
// The slice is nil before the first successful scan.
func (inv *Inventory) LastScan() ([]AccessPointRecord, time.Time) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.cached, inv.lastScan
}

// markSaved flags records whose SSID has a locally saved profile.
// A profile listing failure degrades to all-unsaved rather than failing
// the scan.
func (inv *Inventory) markSaved(ctx context.Context, records []AccessPointRecord) {
	if len(records) == 0 {
		return
	}

	profiles, err := inv.SavedProfiles(ctx)
	if err != nil {
		inv.logger.Warn("profile listing failed, treating all networks as unsaved", zap.Error(err))
		return
	}

	for i := range records {
		if _, ok := profiles[records[i].SSID]; ok {
			records[i].IsSaved = true
		}
	}
}

// SavedProfiles returns the set of wireless profile names stored on this
// machine.
func (inv *Inventory) SavedProfiles(ctx context.Context) (map[string]struct{}, error) {
	res, err := inv.runner.Run(ctx, inv.cfg.ScanTimeout, platform.NetshCommand, platform.ShowProfilesArgs()...)
	if err != nil {
		return nil, fmt.Errorf("profile listing: %w", err)
	}
	if !res.Success() {
		return nil, fmt.Errorf("profile listing exited %d", res.ExitCode)
	}

	return parseProfileListing(res.Stdout), nil
}

// parseProfileListing extracts profile names from the profile listing
// output. Profile lines carry a "profile"/"perfil" label in front of the
// colon-separated name; everything else is ignored.
func parseProfileListing(text string) map[string]struct{} {
	profiles := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := splitAttrLine(strings.TrimSpace(line))
		if !ok || value == "" {
			continue
		}
		if strings.Contains(key, "profile") || strings.Contains(key, "perfil") {
			profiles[value] = struct{}{}
		}
	}
	return profiles
}

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/probelab/wavescout/internal/config"
	"github.com/probelab/wavescout/internal/nettest"
	"github.com/probelab/wavescout/internal/platform"
	"github.com/probelab/wavescout/internal/store"
	"github.com/probelab/wavescout/internal/survey"
	"github.com/probelab/wavescout/internal/telemetry"
	"github.com/probelab/wavescout/internal/wifi"
)

const version = "0.3.0"

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	once := flag.Bool("once", false, "run a single survey pass, print JSON, and exit")
	noTests := flag.Bool("no-tests", false, "scan and connect only, skip the network test battery")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("wavescout " + version)
		return
	}

	// Load configuration before the logger so level/format are configurable.
	v, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Survey(v)
	if err != nil {
		logger.Fatal("invalid survey configuration", zap.Error(err))
	}

	logger.Info("wavescout starting", zap.String("version", version))
	if f := v.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded", zap.String("source", f))
	} else {
		logger.Warn("no configuration file found, using defaults")
	}

	telemetry.Init()

	// Assemble the survey core.
	runner := platform.NewExecRunner(logger.Named("platform"))
	model := wifi.NewSignalModel(wifi.DefaultSignalModelParams())
	parser := wifi.NewParser(model, logger.Named("parser"))

	inventory := wifi.NewInventory(runner, parser, wifi.InventoryConfig{
		MonitoredSSIDs: cfg.MonitoredSSIDs,
		CacheTTL:       cfg.CacheTTL,
		ScanTimeout:    cfg.ScanTimeout,
	}, logger.Named("inventory"))

	controller := wifi.NewController(runner, parser, wifi.ControllerConfig{
		ConnectTimeout:     cfg.ConnectTimeout,
		StabilizationDelay: cfg.StabilizationDelay,
		QueryTimeout:       cfg.ScanTimeout,
	}, logger.Named("controller"))

	battery := buildBattery(runner, cfg.Tests, logger)
	surveyor := survey.NewSurveyor(inventory, controller, battery, logger.Named("survey"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if *once {
		results, err := surveyor.RunFullSurvey(ctx, !*noTests)
		if err != nil {
			logger.Fatal("survey failed", zap.Error(err))
		}
		if err := store.ExportJSON(os.Stdout, results); err != nil {
			logger.Fatal("export failed", zap.Error(err))
		}
		return
	}

	// Continuous mode: persist results and optionally serve metrics.
	dbPath := v.GetString("database.path")
	db, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database initialized", zap.String("path", dbPath))

	if listen := v.GetString("metrics.listen"); listen != "" {
		go serveMetrics(listen, logger)
	}

	sink := func(ctx context.Context, results []survey.Result) error {
		return db.SaveResults(ctx, results)
	}

	loop := survey.NewRunner(surveyor, sink, cfg.SurveyInterval, cfg.ResetEvery, !*noTests, logger.Named("runner"))
	loop.Start(ctx)

	<-ctx.Done()
	loop.Stop()
	logger.Info("wavescout stopped")
}

// buildBattery assembles the network test battery from configuration.
// Ping always runs; the remaining tests are opt-in.
func buildBattery(runner platform.Runner, cfg config.TestConfig, logger *zap.Logger) *nettest.Battery {
	tests := []nettest.Test{
		nettest.NewPingTest(cfg.PingTarget, cfg.PingCount, cfg.PingTimeout, logger.Named("ping")),
	}
	if cfg.TCPTarget != "" {
		tests = append(tests, nettest.NewTCPConnectTest(cfg.TCPTarget, 0))
	}
	if cfg.SpeedTestEnabled && cfg.SpeedTestURL != "" {
		tests = append(tests, nettest.NewHTTPDownloadTest(cfg.SpeedTestURL, 0, 0))
	}
	if cfg.TracerouteEnabled {
		tests = append(tests, nettest.NewTracerouteTest(runner, cfg.TracerouteTarget, 0, 0))
	}
	if cfg.Iperf3Enabled && cfg.Iperf3Server != "" {
		tests = append(tests, nettest.NewIperf3Test(runner, cfg.Iperf3Server, cfg.Iperf3Port, 0, 0))
	}
	return nettest.NewBattery(tests...)
}

// serveMetrics exposes Prometheus metrics on the given address.
func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("metrics listener started", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Warn("metrics listener failed", zap.Error(err))
	}
}

// Package config loads WaveScout settings from file, environment, and
// defaults via Viper, and builds the process logger.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed survey configuration, read once at startup.
type Config struct {
	// MonitoredSSIDs restricts surveying to these networks; empty means
	// survey everything visible.
	MonitoredSSIDs []string

	CacheTTL           time.Duration
	ScanTimeout        time.Duration
	ConnectTimeout     time.Duration
	StabilizationDelay time.Duration
	SurveyInterval     time.Duration

	// ResetEvery clears the tested-network set every Nth pass when
	// running continuously.
	ResetEvery int

	Tests TestConfig
}

// TestConfig gates and parameterises the network test battery.
type TestConfig struct {
	PingTarget  string
	PingCount   int
	PingTimeout time.Duration

	TCPTarget string

	SpeedTestEnabled bool
	SpeedTestURL     string

	TracerouteEnabled bool
	TracerouteTarget  string

	Iperf3Enabled bool
	Iperf3Server  string
	Iperf3Port    int
}

// Load reads configuration from an optional YAML file plus environment
// variables (WS_ prefix, e.g. WS_SURVEY_CACHE_TTL=60s) over defaults.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "wavescout.db")
	v.SetDefault("metrics.listen", "")

	v.SetDefault("survey.monitored_ssids", []string{})
	v.SetDefault("survey.cache_ttl", "30s")
	v.SetDefault("survey.scan_timeout", "15s")
	v.SetDefault("survey.connect_timeout", "10s")
	v.SetDefault("survey.stabilization_delay", "5s")
	v.SetDefault("survey.survey_interval", "5m")
	v.SetDefault("survey.reset_every", 5)

	v.SetDefault("survey.tests.ping_target", "8.8.8.8")
	v.SetDefault("survey.tests.ping_count", 4)
	v.SetDefault("survey.tests.ping_timeout", "2s")
	v.SetDefault("survey.tests.tcp_target", "8.8.8.8:443")
	v.SetDefault("survey.tests.speedtest_enabled", false)
	v.SetDefault("survey.tests.speedtest_url", "")
	v.SetDefault("survey.tests.traceroute_enabled", false)
	v.SetDefault("survey.tests.traceroute_target", "8.8.8.8")
	v.SetDefault("survey.tests.iperf3_enabled", false)
	v.SetDefault("survey.tests.iperf3_server", "")
	v.SetDefault("survey.tests.iperf3_port", 5201)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("wavescout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// Environment variable support: WS_LOGGING_LEVEL=debug
	v.SetEnvPrefix("WS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}

// Survey reads the typed survey section. Explicit getters rather than
// Unmarshal so nested defaults always apply.
func Survey(v *viper.Viper) (Config, error) {
	cfg := Config{
		MonitoredSSIDs:     v.GetStringSlice("survey.monitored_ssids"),
		CacheTTL:           v.GetDuration("survey.cache_ttl"),
		ScanTimeout:        v.GetDuration("survey.scan_timeout"),
		ConnectTimeout:     v.GetDuration("survey.connect_timeout"),
		StabilizationDelay: v.GetDuration("survey.stabilization_delay"),
		SurveyInterval:     v.GetDuration("survey.survey_interval"),
		ResetEvery:         v.GetInt("survey.reset_every"),
		Tests: TestConfig{
			PingTarget:        v.GetString("survey.tests.ping_target"),
			PingCount:         v.GetInt("survey.tests.ping_count"),
			PingTimeout:       v.GetDuration("survey.tests.ping_timeout"),
			TCPTarget:         v.GetString("survey.tests.tcp_target"),
			SpeedTestEnabled:  v.GetBool("survey.tests.speedtest_enabled"),
			SpeedTestURL:      v.GetString("survey.tests.speedtest_url"),
			TracerouteEnabled: v.GetBool("survey.tests.traceroute_enabled"),
			TracerouteTarget:  v.GetString("survey.tests.traceroute_target"),
			Iperf3Enabled:     v.GetBool("survey.tests.iperf3_enabled"),
			Iperf3Server:      v.GetString("survey.tests.iperf3_server"),
			Iperf3Port:        v.GetInt("survey.tests.iperf3_port"),
		},
	}

	if cfg.CacheTTL < 0 || cfg.SurveyInterval < 0 {
		return Config{}, fmt.Errorf("survey durations must be non-negative")
	}
	return cfg, nil
}

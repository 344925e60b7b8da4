package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all service settings, populated from environment variables.
type AppConfig struct {
	Port string

	// BMKG upstream.
	BaseURL      string
	HTTPTimeout  time.Duration
	MaxFeedBytes int64

	// Circuit breaker around the upstream; BreakerMaxFailures 0 disables it.
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	// Scheduled upstream probes. No provinces means no probe job.
	ProbeProvinces []string
	ProbeInterval  time.Duration

	// In-memory probe status retention.
	StatusMaxHistory int           // max number of statuses per province (0 = unlimited)
	StatusMaxAge     time.Duration // max age of statuses (0 = unlimited)

	LogLevel        slog.Level
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.BaseURL = getenvDefault("BMKG_BASE_URL", "https://data.bmkg.go.id/DataMKG/MEWS/DigitalForecast/")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.MaxFeedBytes = int64(getenvInt("MAX_FEED_BYTES", 32<<20))

	maxFailures := getenvInt("BREAKER_MAX_FAILURES", 5)
	if maxFailures < 0 {
		return nil, fmt.Errorf("invalid BREAKER_MAX_FAILURES: %d", maxFailures)
	}
	cfg.BreakerMaxFailures = uint32(maxFailures)
	if cfg.BreakerOpenTimeout, err = getenvDuration("BREAKER_OPEN_TIMEOUT", "1m"); err != nil {
		return nil, err
	}

	cfg.ProbeProvinces = splitList(os.Getenv("PROBE_PROVINCES"))
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	// Status retention: 96 entries is roughly 24h at 15-minute intervals.
	cfg.StatusMaxHistory = getenvInt("STATUS_MAX_HISTORY", 96)
	if cfg.StatusMaxAge, err = getenvDuration("STATUS_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "json"))
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT: %q (want json or text)", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewLogger builds the process logger described by LogLevel and LogFormat, writing to w.
func (c *AppConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

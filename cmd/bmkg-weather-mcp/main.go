package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/miyamo2/qilin"

	"github.com/i474232898/bmkg-weather/internal/config"
	"github.com/i474232898/bmkg-weather/internal/mcp"
	"github.com/i474232898/bmkg-weather/internal/observability"
	"github.com/i474232898/bmkg-weather/internal/weather"
	"github.com/i474232898/bmkg-weather/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// stdout carries the MCP stream.
	log := cfg.NewLogger(os.Stderr)
	slog.SetDefault(log)

	metrics := observability.NewMetrics()
	feed := providers.NewBMKGProvider(&http.Client{Timeout: cfg.HTTPTimeout}, providers.BMKGOptions{
		MaxBodyBytes: cfg.MaxFeedBytes,
		Breaker: providers.BreakerConfig{
			MaxFailures: cfg.BreakerMaxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
		},
	}, metrics, log)
	service := weather.NewService(feed, cfg.BaseURL, metrics, log)

	q := qilin.New("bmkg-weather", qilin.WithVersion("1.0.0"))
	mcp.NewHandler(service).Register(q)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("mcp server starting on stdio", "upstream", cfg.BaseURL)
	if err := q.Start(qilin.StartWithContext(ctx)); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/bmkg-weather/internal/observability"
	"github.com/i474232898/bmkg-weather/internal/weather"
)

// Fetcher is the part of weather.Service the probe job needs.
type Fetcher interface {
	FetchWeather(ctx context.Context, province string) ([]weather.WeatherRecord, error)
}

// Scheduler periodically probes the BMKG feeds of the configured provinces and records
// the outcome. Probed records are counted and discarded.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	store     weather.StatusStore
	provinces []string
	interval  time.Duration
	timeout   time.Duration
	clock     clockwork.Clock
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(
	provinces []string,
	interval time.Duration,
	fetcher Fetcher,
	store weather.StatusStore,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		fetcher:   fetcher,
		store:     store,
		provinces: provinces,
		interval:  interval,
		timeout:   30 * time.Second,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Start schedules the periodic probe job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.provinces) == 0 {
		s.logger.Info("scheduler: no probe provinces configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler: probe job started", "provinces", len(s.provinces), "interval", interval.String())
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunOnce probes every configured province, one after another.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.logger.Debug("scheduler: running probe job")
	for _, province := range s.provinces {
		if ctx.Err() != nil {
			return
		}
		s.store.SaveStatus(s.probe(ctx, province))
	}
	s.logger.Debug("scheduler: completed probe job")
}

func (s *Scheduler) probe(ctx context.Context, province string) weather.ProbeStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.fetcher.FetchWeather(ctx, province)
	status := weather.ProbeStatus{
		Province:  province,
		CheckedAt: s.clock.Now().UTC(),
		OK:        err == nil,
		Records:   len(records),
	}

	if err != nil {
		status.Error = err.Error()
		var ue *weather.UpstreamError
		if errors.As(err, &ue) {
			status.StatusCode = ue.StatusCode
		}
		s.metrics.UpstreamUp.WithLabelValues(province).Set(0)
		s.logger.Warn("scheduler: probe failed", "province", province, "error", err)
		return status
	}

	status.StatusCode = http.StatusOK
	s.metrics.UpstreamUp.WithLabelValues(province).Set(1)
	return status
}

package providers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/bmkg-weather/internal/observability"
)

// BMKGOptions configures the BMKG feed provider.
type BMKGOptions struct {
	MaxBodyBytes int64
	Breaker      BreakerConfig
}

// BMKGProvider implements weather.Feed for the BMKG DigitalForecast XML files.
type BMKGProvider struct {
	name    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewBMKGProvider(client *http.Client, opts BMKGOptions, metrics *observability.Metrics, logger *slog.Logger) *BMKGProvider {
	p := &BMKGProvider{
		name: "bmkg",
		httpCfg: HTTPClientConfig{
			Client:       client,
			MaxBodyBytes: opts.MaxBodyBytes,
		},
		metrics: metrics,
		logger:  logger,
	}
	p.circuit = newBreaker(p.Name(), opts.Breaker, p.setBreakerOpen, logger)
	return p
}

func (p *BMKGProvider) Name() string {
	return p.name
}

// Get fetches one feed document.
func (p *BMKGProvider) Get(ctx context.Context, url string) ([]byte, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/xml, text/xml")
		req.Header.Set("User-Agent", "bmkg-weather/1.0")
		return req, nil
	}

	start := time.Now()
	body, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	p.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Debug("feed request failed", "provider", p.Name(), "url", url, "error", err)
		return nil, err
	}

	p.logger.Debug("feed fetched", "provider", p.Name(), "url", url, "bytes", len(body))
	return body, nil
}

func (p *BMKGProvider) setBreakerOpen(open bool) {
	if open {
		p.metrics.BreakerOpen.Set(1)
		return
	}
	p.metrics.BreakerOpen.Set(0)
}

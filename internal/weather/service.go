package weather

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/i474232898/bmkg-weather/internal/observability"
)

// DefaultBaseURL is the BMKG DigitalForecast directory.
const DefaultBaseURL = "https://data.bmkg.go.id/DataMKG/MEWS/DigitalForecast/"

// Service resolves a province to its BMKG feed, fetches it once and parses it.
type Service struct {
	feed    Feed
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewService creates a new Service. An empty baseURL falls back to DefaultBaseURL.
func NewService(feed Feed, baseURL string, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Service{
		feed:    feed,
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FeedURL returns the feed URL for a province, or ErrUnsupportedProvince.
func (s *Service) FeedURL(province string) (string, error) {
	suffix := FeedSuffix(province)
	if suffix == "" {
		return "", ErrUnsupportedProvince
	}
	return s.baseURL + suffix, nil
}

// FetchWeather fetches and parses the forecast feed of a province. Errors from the feed and
// the parser are returned unchanged; nothing is retried or cached.
func (s *Service) FetchWeather(ctx context.Context, province string) ([]WeatherRecord, error) {
	url, err := s.FeedURL(province)
	if err != nil {
		s.metrics.FetchRequests.WithLabelValues(observability.OutcomeUnsupported).Inc()
		return nil, err
	}

	body, err := s.feed.Get(ctx, url)
	if err != nil {
		s.metrics.FetchRequests.WithLabelValues(fetchOutcome(err)).Inc()
		s.logger.Warn("bmkg fetch failed", "province", province, "url", url, "error", err)
		return nil, err
	}

	records, err := ParseFeed(body)
	if err != nil {
		s.metrics.FetchRequests.WithLabelValues(observability.OutcomeParse).Inc()
		s.logger.Error("bmkg feed rejected", "province", province, "url", url, "error", err)
		return nil, err
	}

	s.metrics.FetchRequests.WithLabelValues(observability.OutcomeSuccess).Inc()
	s.metrics.RecordsParsed.Add(float64(len(records)))
	s.logger.Debug("bmkg feed parsed", "province", province, "records", len(records))
	return records, nil
}

func fetchOutcome(err error) string {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return observability.OutcomeUpstream
	}
	return observability.OutcomeTransport
}

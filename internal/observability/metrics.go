package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes recorded on FetchRequests.
const (
	OutcomeSuccess     = "success"
	OutcomeUnsupported = "unsupported"
	OutcomeUpstream    = "upstream_error"
	OutcomeTransport   = "transport_error"
	OutcomeParse       = "parse_error"
)

// Metrics holds the Prometheus collectors for the BMKG weather service.
type Metrics struct {
	FetchRequests    *prometheus.CounterVec // labels: outcome
	UpstreamDuration prometheus.Histogram
	RecordsParsed    prometheus.Counter
	BreakerOpen      prometheus.Gauge
	UpstreamUp       *prometheus.GaugeVec // labels: province
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()

	prometheus.MustRegister(
		m.FetchRequests,
		m.UpstreamDuration,
		m.RecordsParsed,
		m.BreakerOpen,
		m.UpstreamUp,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bmkg_weather",
			Name:      "fetch_total",
			Help:      "Forecast fetches by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bmkg_weather",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of BMKG feed requests in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bmkg_weather",
			Name:      "records_parsed_total",
			Help:      "Weather records produced from BMKG feeds.",
		}),
		BreakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bmkg_weather",
			Name:      "breaker_open",
			Help:      "1 while the upstream circuit breaker is open, 0 otherwise.",
		}),
		UpstreamUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bmkg_weather",
			Name:      "upstream_up",
			Help:      "Result of the last scheduled probe per province (1 ok, 0 failed).",
		}, []string{"province"}),
	}
}

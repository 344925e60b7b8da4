package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/bmkg-weather/internal/observability"
	"github.com/i474232898/bmkg-weather/internal/store"
	"github.com/i474232898/bmkg-weather/internal/weather"
)

type stubFetcher struct {
	results map[string]error
	calls   []string
}

func (f *stubFetcher) FetchWeather(_ context.Context, province string) ([]weather.WeatherRecord, error) {
	f.calls = append(f.calls, province)
	if err := f.results[province]; err != nil {
		return nil, err
	}
	return []weather.WeatherRecord{{AreaName: "a"}, {AreaName: "b"}}, nil
}

func newTestScheduler(provinces []string, f Fetcher) (*Scheduler, *store.MemoryStore, *observability.Metrics) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore(10, 0, clock)
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(provinces, time.Minute, f, st, clock, m, logger), st, m
}

func TestScheduler_RunOnce(t *testing.T) {
	f := &stubFetcher{results: map[string]error{
		"Bali":  &weather.UpstreamError{StatusCode: 503},
		"Mars":  weather.ErrUnsupportedProvince,
		"Jambi": nil,
	}}
	s, st, m := newTestScheduler([]string{"Jambi", "Bali", "Mars"}, f)

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"Jambi", "Bali", "Mars"}, f.calls, "probes run sequentially in configured order")

	jambi, err := st.GetLatest("Jambi")
	require.NoError(t, err)
	assert.True(t, jambi.OK)
	assert.Equal(t, 200, jambi.StatusCode)
	assert.Equal(t, 2, jambi.Records)
	assert.Equal(t, time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC), jambi.CheckedAt)

	bali, err := st.GetLatest("Bali")
	require.NoError(t, err)
	assert.False(t, bali.OK)
	assert.Equal(t, 503, bali.StatusCode)
	assert.Contains(t, bali.Error, "503")

	mars, err := st.GetLatest("Mars")
	require.NoError(t, err)
	assert.Zero(t, mars.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamUp.WithLabelValues("Jambi")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.UpstreamUp.WithLabelValues("Bali")))
}

func TestScheduler_RunOnce_CancelledContext(t *testing.T) {
	f := &stubFetcher{}
	s, st, _ := newTestScheduler([]string{"Aceh"}, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)

	assert.Empty(t, f.calls)
	_, err := st.GetLatest("Aceh")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestScheduler_StartWithoutProvinces(t *testing.T) {
	s, _, _ := newTestScheduler(nil, &stubFetcher{})
	require.NoError(t, s.Start())
	s.Stop()
}

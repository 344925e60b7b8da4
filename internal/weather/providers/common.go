package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/bmkg-weather/internal/weather"
)

// BreakerConfig controls the upstream circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the breaker. 0 disables it.
	MaxFailures uint32
	OpenTimeout time.Duration
}

// HTTPClientConfig bundles the HTTP client and response limits.
type HTTPClientConfig struct {
	Client       *http.Client
	MaxBodyBytes int64
}

var (
	errNoHTTPClient = errors.New("http client not configured")
	errBodyTooLarge = errors.New("response body exceeds limit")
)

// newBreaker returns nil when the breaker is disabled.
func newBreaker(name string, cfg BreakerConfig, onOpen func(bool), logger *slog.Logger) *gobreaker.CircuitBreaker {
	if cfg.MaxFailures == 0 {
		return nil
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Client-side statuses say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			var ue *weather.UpstreamError
			if errors.As(err, &ue) {
				return ue.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			onOpen(to == gobreaker.StateOpen)
		},
	})
}

// doRequest executes exactly one GET through the breaker and returns the 200 body.
// There are no retries.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
) ([]byte, error) {
	if cfg.Client == nil {
		return nil, &weather.TransportError{Err: errNoHTTPClient}
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return nil, &weather.TransportError{Err: err}
	}

	exec := func() (interface{}, error) {
		resp, err := cfg.Client.Do(req)
		if err != nil {
			return nil, &weather.TransportError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, &weather.UpstreamError{StatusCode: resp.StatusCode}
		}

		body, err := readLimited(resp.Body, cfg.MaxBodyBytes)
		if err != nil {
			return nil, &weather.TransportError{Err: err}
		}
		return body, nil
	}

	if cb == nil {
		result, err := exec()
		if err != nil {
			return nil, err
		}
		return result.([]byte), nil
	}

	result, err := cb.Execute(exec)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.TransportError{Err: fmt.Errorf("%w: %v", weather.ErrCircuitOpen, err)}
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %d bytes", errBodyTooLarge, limit)
	}
	return body, nil
}

package weather

import (
	"context"
)

// Feed performs the single outbound GET for a feed URL.
// Implementations report a non-200 response as *UpstreamError and a request that could not
// complete as *TransportError.
type Feed interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// StatusStore is the contract the in-memory probe status store must satisfy.
type StatusStore interface {
	SaveStatus(status ProbeStatus)
	GetLatest(province string) (ProbeStatus, error)
	History(province string) ([]ProbeStatus, error)
	Latest() []ProbeStatus
}

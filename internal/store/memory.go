package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/bmkg-weather/internal/common"
	"github.com/i474232898/bmkg-weather/internal/weather"
)

var (
	// ErrNotFound is returned when no probe status is recorded for a province.
	ErrNotFound = errors.New("no probe status for province")
)

// StatusHistory holds a time-ordered list of probe results for a province.
type StatusHistory struct {
	Statuses []weather.ProbeStatus
}

// MemoryStore is a concurrency-safe in-memory store of upstream probe results.
// It never holds weather records.
type MemoryStore struct {
	mu sync.RWMutex

	// key: folded province name, value: history
	data map[string]*StatusHistory

	// retention configuration
	maxHistory int           // max number of statuses per province
	maxAge     time.Duration // optional max age for statuses

	clock clockwork.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited. A nil clock uses real time.
func NewMemoryStore(maxHistory int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		data:       make(map[string]*StatusHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		clock:      clock,
	}
}

// SaveStatus appends a probe result for its province and enforces retention.
func (s *MemoryStore) SaveStatus(status weather.ProbeStatus) {
	key := common.Fold(status.Province)

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &StatusHistory{}
		s.data[key] = history
	}

	history.Statuses = append(history.Statuses, status)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Statuses) > s.maxHistory {
		over := len(history.Statuses) - s.maxHistory
		history.Statuses = history.Statuses[over:]
	}

	// Enforce retention by age; the newest status is always kept.
	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Statuses)-1; i++ {
			if !history.Statuses[i].CheckedAt.Before(cutoff) {
				break
			}
		}
		history.Statuses = history.Statuses[i:]
	}
}

// GetLatest returns the most recent probe result for a province.
func (s *MemoryStore) GetLatest(province string) (weather.ProbeStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[common.Fold(province)]
	if !ok || len(history.Statuses) == 0 {
		return weather.ProbeStatus{}, ErrNotFound
	}
	return history.Statuses[len(history.Statuses)-1], nil
}

// History returns a copy of every retained probe result for a province, oldest first.
func (s *MemoryStore) History(province string) ([]weather.ProbeStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[common.Fold(province)]
	if !ok || len(history.Statuses) == 0 {
		return nil, ErrNotFound
	}
	out := make([]weather.ProbeStatus, len(history.Statuses))
	copy(out, history.Statuses)
	return out, nil
}

// Latest returns the newest probe result of every province, sorted by province name.
func (s *MemoryStore) Latest() []weather.ProbeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]weather.ProbeStatus, 0, len(s.data))
	for _, history := range s.data {
		if len(history.Statuses) == 0 {
			continue
		}
		result = append(result, history.Statuses[len(history.Statuses)-1])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Province < result[j].Province })
	return result
}

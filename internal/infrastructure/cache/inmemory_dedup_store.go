package cache

import (
	"context"
	"sync"
	"time"

	"github.com/stayops/backend/internal/application/alerting"
)

// InMemoryDedupStore suppresses repeated alert notifications within a
// time window. Suitable for single-instance deployments; distributed
// deployments should use RedisDedupStore so instances share state.
type InMemoryDedupStore struct {
	mu       sync.Mutex
	lastSent map[string]time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewInMemoryDedupStore creates a store with a background cleanup loop
func NewInMemoryDedupStore() *InMemoryDedupStore {
	s := &InMemoryDedupStore{
		lastSent: make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}
	go s.cleanupLoop(10 * time.Minute)
	return s
}

// ShouldNotify reports whether a notification for key may be sent now.
// The first call for a key within the interval wins; subsequent calls
// are suppressed until the interval elapses.
func (s *InMemoryDedupStore) ShouldNotify(_ context.Context, key string, interval time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if last, ok := s.lastSent[key]; ok && now.Sub(last) < interval {
		return false, nil
	}
	s.lastSent[key] = now
	return true, nil
}

// Close stops the background cleanup loop
func (s *InMemoryDedupStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// cleanupLoop evicts entries older than the retention period so the
// map does not grow unbounded across alert keys
func (s *InMemoryDedupStore) cleanupLoop(retention time.Duration) {
	ticker := time.NewTicker(retention)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictOlderThan(retention)
		case <-s.stopChan:
			return
		}
	}
}

func (s *InMemoryDedupStore) evictOlderThan(age time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-age)
	for key, last := range s.lastSent {
		if last.Before(cutoff) {
			delete(s.lastSent, key)
		}
	}
}

var _ alerting.DedupStore = (*InMemoryDedupStore)(nil)

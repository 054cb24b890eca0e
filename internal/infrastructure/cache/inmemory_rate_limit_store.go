package cache

import (
	"context"
	"sync"
	"time"
)

// window represents a fixed counting window for one key
type window struct {
	count     int64
	expiresAt time.Time
}

// InMemoryRateLimitStore implements RateLimitStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryRateLimitStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRateLimitStore creates a new in-memory rate limit store.
// It starts a background goroutine to clean up expired windows.
func NewInMemoryRateLimitStore() *InMemoryRateLimitStore {
	store := &InMemoryRateLimitStore{
		windows:  make(map[string]*window),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Increment adds one hit for the key within the current fixed window.
// A new window starts when the key has no window or the old one expired.
func (s *InMemoryRateLimitStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w, exists := s.windows[key]
	if !exists || now.After(w.expiresAt) {
		s.windows[key] = &window{count: 1, expiresAt: now.Add(ttl)}
		return 1, nil
	}

	w.count++
	return w.count, nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (s *InMemoryRateLimitStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired windows
func (s *InMemoryRateLimitStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired windows from the store
func (s *InMemoryRateLimitStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, w := range s.windows {
		if now.After(w.expiresAt) {
			delete(s.windows, key)
		}
	}
}

// Size returns the number of tracked keys (for testing/monitoring)
func (s *InMemoryRateLimitStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Ensure InMemoryRateLimitStore implements RateLimitStore
var _ RateLimitStore = (*InMemoryRateLimitStore)(nil)

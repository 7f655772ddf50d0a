package services

import (
	"sync"
	"time"
)

type previewKey struct {
	streamID string
	userID   string
}

// previewScheduler tracks one pending revocation timer per (stream, viewer).
// The map entry is the single source of truth for who wins the race between
// payment and expiry: whichever side removes the entry first acts, the other
// becomes a no-op.
type previewScheduler struct {
	mu      sync.Mutex
	pending map[previewKey]*time.Timer
}

func newPreviewScheduler() *previewScheduler {
	return &previewScheduler{pending: make(map[previewKey]*time.Timer)}
}

// Schedule arms a revocation timer. A viewer rejoining within an armed window
// does not reset the clock.
func (s *previewScheduler) Schedule(streamID, userID string, d time.Duration, onExpire func()) {
	key := previewKey{streamID: streamID, userID: userID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[key]; ok {
		return
	}
	s.pending[key] = time.AfterFunc(d, func() {
		if s.resolve(key) {
			onExpire()
		}
	})
}

// Resolve claims the pending window, stopping the timer. It reports false
// when there was no window left to claim.
func (s *previewScheduler) Resolve(streamID, userID string) bool {
	key := previewKey{streamID: streamID, userID: userID}
	s.mu.Lock()
	t, ok := s.pending[key]
	if ok {
		delete(s.pending, key)
	}
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
	return ok
}

func (s *previewScheduler) resolve(key previewKey) bool {
	s.mu.Lock()
	_, ok := s.pending[key]
	if ok {
		delete(s.pending, key)
	}
	s.mu.Unlock()
	return ok
}

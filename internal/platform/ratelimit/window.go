// Package ratelimit throttles unauthenticated endpoints per client IP with a
// sliding window held in memory.
package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// SlidingWindow counts hits per key over the trailing window. A sliding
// window does not reset at a boundary, so a burst cannot straddle two windows.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
	now     func() time.Time
}

type Option func(*SlidingWindow)

func WithClock(now func() time.Time) Option {
	return func(s *SlidingWindow) {
		s.now = now
	}
}

func NewSlidingWindow(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	s := &SlidingWindow{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records a hit for key if it fits under the limit.
func (s *SlidingWindow) Allow(key string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	hits := prune(s.buckets[key], now.Add(-s.window))
	if len(hits) >= s.limit {
		s.buckets[key] = hits
		return Result{Limit: s.limit, ResetAt: hits[0].Add(s.window)}
	}
	hits = append(hits, now)
	s.buckets[key] = hits
	return Result{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - len(hits),
		ResetAt:   hits[0].Add(s.window),
	}
}

// Sweep drops keys with no hits inside the window.
func (s *SlidingWindow) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.window)
	for key, hits := range s.buckets {
		if hits = prune(hits, cutoff); len(hits) == 0 {
			delete(s.buckets, key)
		} else {
			s.buckets[key] = hits
		}
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(hits); i++ {
		if hits[i].After(cutoff) {
			break
		}
	}
	return hits[i:]
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit gates outbound calls to external APIs. It provides a
// sliding-window rate limiter, a bounded exponential-backoff retry
// policy, and a Pipeline that composes the two so that the limiter gates
// every attempt, including retries.
package ratelimit

import (
	"sync"
	"time"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// Limiter enforces a maximum request rate over a sliding window plus a
// minimum spacing between consecutive requests. One Limiter instance is
// shared per external API; its check-and-record sequence is serialized,
// so at most one caller proceeds at a time. Acquire never fails, it only
// delays.
type Limiter struct {
	maxRequests int
	window      time.Duration
	minDelay    time.Duration

	mu       sync.Mutex
	requests []time.Time
	last     time.Time

	// now and sleep are overridable in tests to avoid real waits.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewLimiter constructs a limiter from cfg with fresh state.
func NewLimiter(cfg types.RateLimitConfig) *Limiter {
	return &Limiter{
		maxRequests: cfg.MaxRequests,
		window:      cfg.TimeWindow,
		minDelay:    cfg.MinDelay,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// Acquire blocks until one more request may be issued, then records it.
// The lock is held for the whole sequence: the guarantee that no rolling
// window sees more than maxRequests completions depends on the evict,
// wait, and record steps being atomic with respect to other callers. No
// fairness order is promised among blocked callers.
func (l *Limiter) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(l.now())

	if len(l.requests) >= l.maxRequests {
		wait := l.requests[0].Add(l.window).Sub(l.now())
		if wait > 0 {
			l.sleep(wait)
		}
		l.evict(l.now())
	}

	if !l.last.IsZero() && l.minDelay > 0 {
		if elapsed := l.now().Sub(l.last); elapsed < l.minDelay {
			l.sleep(l.minDelay - elapsed)
		}
	}

	now := l.now()
	l.requests = append(l.requests, now)
	l.last = now
}

// evict drops recorded requests older than the sliding window.
func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.requests) && !l.requests[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.requests = append(l.requests[:0], l.requests[i:]...)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// fakeClock advances only when the limiter sleeps, so tests observe
// exact wait decisions without real delays.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.t = c.t.Add(d)
	c.sleeps = append(c.sleeps, d)
}

// advance moves the clock without recording a sleep, simulating time
// passing between calls.
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testLimiter(cfg types.RateLimitConfig) (*Limiter, *fakeClock) {
	l := NewLimiter(cfg)
	clock := newFakeClock()
	l.now = clock.now
	l.sleep = clock.sleep
	return l, clock
}

func TestAcquireUnderLimitDoesNotWait(t *testing.T) {
	l, clock := testLimiter(types.RateLimitConfig{
		MaxRequests: 5,
		TimeWindow:  time.Minute,
	})

	for i := 0; i < 5; i++ {
		l.Acquire()
	}
	assert.Empty(t, clock.sleeps)
}

func TestAcquireWaitsForWindowSlot(t *testing.T) {
	l, clock := testLimiter(types.RateLimitConfig{
		MaxRequests: 2,
		TimeWindow:  10 * time.Second,
	})

	l.Acquire()
	clock.advance(1 * time.Second)
	l.Acquire()
	l.Acquire() // third call must wait until the oldest slot expires

	require.Len(t, clock.sleeps, 1)
	// Oldest request was at t0; the window frees at t0+10s, 9s from now.
	assert.Equal(t, 9*time.Second, clock.sleeps[0])
}

func TestAcquireEnforcesMinDelay(t *testing.T) {
	l, clock := testLimiter(types.RateLimitConfig{
		MaxRequests: 100,
		TimeWindow:  time.Minute,
		MinDelay:    3 * time.Second,
	})

	l.Acquire()
	l.Acquire()
	l.Acquire()

	require.Len(t, clock.sleeps, 2)
	assert.Equal(t, 3*time.Second, clock.sleeps[0])
	assert.Equal(t, 3*time.Second, clock.sleeps[1])
}

func TestAcquirePartialMinDelay(t *testing.T) {
	l, clock := testLimiter(types.RateLimitConfig{
		MaxRequests: 100,
		TimeWindow:  time.Minute,
		MinDelay:    3 * time.Second,
	})

	l.Acquire()
	clock.advance(2 * time.Second)
	l.Acquire()

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 1*time.Second, clock.sleeps[0])
}

// TestSlidingWindowProperty issues a burst of calls and checks the two
// limiter guarantees directly against the recorded completion times: no
// rolling window holds more than MaxRequests completions, and
// consecutive completions are spaced by at least MinDelay.
func TestSlidingWindowProperty(t *testing.T) {
	cfg := types.RateLimitConfig{
		MaxRequests: 3,
		TimeWindow:  10 * time.Second,
		MinDelay:    1 * time.Second,
	}
	l, _ := testLimiter(cfg)

	var completions []time.Time
	for i := 0; i < 12; i++ {
		l.Acquire()
		completions = append(completions, l.last)
	}

	for i := 1; i < len(completions); i++ {
		gap := completions[i].Sub(completions[i-1])
		assert.GreaterOrEqual(t, gap, cfg.MinDelay, "completion %d too close to predecessor", i)
	}

	for i := range completions {
		inWindow := 0
		for j := i; j < len(completions); j++ {
			if completions[j].Sub(completions[i]) < cfg.TimeWindow {
				inWindow++
			}
		}
		assert.LessOrEqual(t, inWindow, cfg.MaxRequests, "window starting at completion %d overflows", i)
	}
}

// TestAcquireConcurrent exercises the real clock with tiny durations to
// confirm the check-and-record sequence stays atomic under contention.
func TestAcquireConcurrent(t *testing.T) {
	l := NewLimiter(types.RateLimitConfig{
		MaxRequests: 4,
		TimeWindow:  50 * time.Millisecond,
		MinDelay:    time.Millisecond,
	})

	const calls = 8
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Acquire()
		}()
	}
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	// Whatever remains tracked must fit the window bound.
	assert.LessOrEqual(t, len(l.requests), calls)
	for i := 1; i < len(l.requests); i++ {
		assert.GreaterOrEqual(t, l.requests[i].Sub(l.requests[i-1]), time.Millisecond)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// RetryPolicy executes an operation with bounded exponential backoff.
// MaxRetries additional attempts follow the first; the wait before retry
// n is BackoffBase^(n-1) seconds. The final attempt's error propagates to
// the caller unchanged.
type RetryPolicy struct {
	maxRetries  int
	backoffBase float64

	// sleep is overridable in tests to observe waits without real delay.
	sleep func(time.Duration)
}

// NewRetryPolicy constructs a policy from cfg. MaxRetries of zero means
// exactly one attempt.
func NewRetryPolicy(cfg types.RetryConfig) *RetryPolicy {
	return &RetryPolicy{
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
	}
}

// Do runs op, retrying on any error until the attempt budget is spent.
// Backoff waits respect ctx cancellation; the policy itself imposes no
// timeout, callers wrap the whole sequence when they need one.
func (p *RetryPolicy) Do(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(p.backoffBase, float64(attempt-1)) * float64(time.Second))
			if err := p.wait(ctx, wait); err != nil {
				return err
			}
		}
		if err := op(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (p *RetryPolicy) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		p.sleep(d)
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

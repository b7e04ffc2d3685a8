// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-rag/pkg/types"
)

func testRetry(cfg types.RetryConfig) (*RetryPolicy, *[]time.Duration) {
	p := NewRetryPolicy(cfg)
	var sleeps []time.Duration
	p.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return p, &sleeps
}

func TestRetryEventualSuccess(t *testing.T) {
	p, sleeps := testRetry(types.RetryConfig{MaxRetries: 3, BackoffBase: 2})

	attempts := 0
	err := p.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 4 {
			return fmt.Errorf("attempt %d failed", attempts)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
	// Backoff waits are base^0, base^1, base^2 seconds.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, *sleeps)
}

func TestRetryExhaustionPropagatesLastError(t *testing.T) {
	p, sleeps := testRetry(types.RetryConfig{MaxRetries: 3, BackoffBase: 2})

	var issued []error
	err := p.Do(context.Background(), func(context.Context) error {
		e := fmt.Errorf("attempt %d failed", len(issued)+1)
		issued = append(issued, e)
		return e
	})

	require.Error(t, err)
	assert.Len(t, issued, 4)
	// The last failure propagates unchanged, not wrapped.
	assert.ErrorIs(t, err, issued[3])

	var total time.Duration
	for _, d := range *sleeps {
		total += d
	}
	assert.Equal(t, 7*time.Second, total) // 2^0 + 2^1 + 2^2
}

func TestRetryZeroMeansSingleAttempt(t *testing.T) {
	p, sleeps := testRetry(types.RetryConfig{MaxRetries: 0, BackoffBase: 2})

	attempts := 0
	sentinel := errors.New("boom")
	err := p.Do(context.Background(), func(context.Context) error {
		attempts++
		return sentinel
	})

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, *sleeps)
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := NewRetryPolicy(types.RetryConfig{MaxRetries: 5, BackoffBase: 2})
	p.sleep = func(time.Duration) { cancel() }

	attempts := 0
	err := p.Do(ctx, func(context.Context) error {
		attempts++
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

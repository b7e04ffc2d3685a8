// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-rag/pkg/types"
)

func testPipeline(limitCfg types.RateLimitConfig, retryCfg types.RetryConfig) (*Pipeline, *fakeClock, *logrustest.Hook) {
	limiter, clock := testLimiter(limitCfg)
	logger, hook := logrustest.NewNullLogger()
	p := NewPipeline(limiter, retryCfg, logrus.NewEntry(logger))
	p.retry.sleep = clock.sleep
	return p, clock, hook
}

// Every attempt, including retries, must pass through the limiter and
// consume one rate-limit slot.
func TestExecuteGatesEveryAttempt(t *testing.T) {
	p, _, _ := testPipeline(
		types.RateLimitConfig{MaxRequests: 10, TimeWindow: time.Minute},
		types.RetryConfig{MaxRetries: 3, BackoffBase: 2},
	)

	attempts := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	p.limiter.mu.Lock()
	defer p.limiter.mu.Unlock()
	assert.Len(t, p.limiter.requests, 3)
}

func TestExecutePropagatesAfterExhaustion(t *testing.T) {
	p, _, _ := testPipeline(
		types.RateLimitConfig{MaxRequests: 10, TimeWindow: time.Minute},
		types.RetryConfig{MaxRetries: 1, BackoffBase: 2},
	)

	sentinel := errors.New("persistent")
	err := p.Execute(context.Background(), func(context.Context) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
}

func TestExecuteLogsProviderRateLimitDistinctly(t *testing.T) {
	p, _, hook := testPipeline(
		types.RateLimitConfig{MaxRequests: 10, TimeWindow: time.Minute},
		types.RetryConfig{MaxRetries: 1, BackoffBase: 2},
	)

	rlErr := &types.ExternalError{Service: "feed", RateLimited: true, Err: errors.New("429")}
	_ = p.Execute(context.Background(), func(context.Context) error {
		return rlErr
	})

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned, "provider rate limit should log at warn level")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ratelimit

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// Pipeline composes a shared Limiter with a RetryPolicy around calls to
// one external API. The ordering is a visible contract here rather than
// a wrapper-stacking accident: the limiter gates every attempt, so each
// retry consumes one rate-limit slot.
type Pipeline struct {
	limiter *Limiter
	retry   *RetryPolicy
	log     *logrus.Entry
}

// NewPipeline builds a pipeline around limiter. The limiter is shared
// across all pipelines calling the same API; the retry policy is
// per-pipeline.
func NewPipeline(limiter *Limiter, retryCfg types.RetryConfig, log *logrus.Entry) *Pipeline {
	return &Pipeline{
		limiter: limiter,
		retry:   NewRetryPolicy(retryCfg),
		log:     log,
	}
}

// Execute runs op through the limiter and retry policy. A provider-side
// rate-limit response is retried like any transient failure but logged
// distinctly, since it means the local limiter configuration is more
// permissive than the provider's actual policy.
func (p *Pipeline) Execute(ctx context.Context, op func(context.Context) error) error {
	return p.retry.Do(ctx, func(ctx context.Context) error {
		p.limiter.Acquire()
		err := op(ctx)
		if err != nil && p.log != nil {
			if types.IsRateLimited(err) {
				p.log.WithError(err).Warn("provider rate limit hit; local limiter too permissive")
			} else {
				p.log.WithError(err).Debug("attempt failed")
			}
		}
		return err
	})
}

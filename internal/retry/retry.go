// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry provides a bounded exponential backoff combinator shared by
// the download and summarization stages.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// Policy describes one backoff curve: how many attempts, where the delay
// starts, and where it is capped. The zero value is not usable; build one
// with FromConfig or fill the fields explicitly.
type Policy struct {
	// MaxAttempts is the total attempt ceiling, including the first try.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt. Each subsequent
	// wait doubles.
	BaseDelay time.Duration

	// MaxDelay caps each wait.
	MaxDelay time.Duration
}

// Default matches the download policy: 5 attempts, delays doubling from 4s
// and capped at 60s.
var Default = Policy{
	MaxAttempts: 5,
	BaseDelay:   4 * time.Second,
	MaxDelay:    60 * time.Second,
}

// FromConfig builds a Policy from configuration, filling unset fields from
// Default.
func FromConfig(cfg types.RetryConfig) Policy {
	p := Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = Default.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = Default.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = Default.MaxDelay
	}
	return p
}

// Delay returns the wait preceding the given attempt (attempt 0 is the
// first try and has no wait).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do runs op until it succeeds or the policy's attempts are exhausted,
// sleeping the policy's backoff between attempts. The wait is context-aware:
// cancellation during a backoff returns ctx.Err(). After exhaustion the last
// error is returned wrapped with the attempt count.
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = Default.MaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if wait := p.Delay(attempt); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("after %d attempts: %w", p.MaxAttempts, lastErr)
}

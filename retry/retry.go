// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Policy configures retry behaviour for one external call site.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first one fails.
	MaxRetries int
	// BaseDelay is the wait before the first retry; it doubles on each retry.
	BaseDelay time.Duration
	// MaxDelay caps a single wait. Zero means uncapped.
	MaxDelay time.Duration
	// Jitter scales each wait by a uniform factor in [0.5, 1.0).
	Jitter bool
	// ShouldRetry decides whether a failure qualifies for another attempt.
	// Nil uses Retryable.
	ShouldRetry func(error) bool
	// Logger receives one warning per retry. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultPolicy returns three retries starting at five seconds and capped at one minute.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  5 * time.Second,
		MaxDelay:   60 * time.Second,
		Jitter:     true,
	}
}

// Validate checks that the policy values are usable.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must be >= 0, got %d", ErrInvalidPolicy, p.MaxRetries)
	}
	if p.BaseDelay < 0 {
		return fmt.Errorf("%w: base delay must be >= 0, got %v", ErrInvalidPolicy, p.BaseDelay)
	}
	if p.MaxDelay < 0 {
		return fmt.Errorf("%w: max delay must be >= 0, got %v", ErrInvalidPolicy, p.MaxDelay)
	}
	return nil
}

// Delay returns the un-jittered wait before retry number attempt (zero-based):
// min(BaseDelay * 2^attempt, MaxDelay).
func (p Policy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			break
		}
		// Stop doubling before overflowing.
		if delay > time.Duration(1<<62) {
			break
		}
		delay *= 2
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

func (p Policy) wait(attempt int) time.Duration {
	delay := p.Delay(attempt)
	if p.Jitter && delay > 0 {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()*0.5))
	}
	return delay
}

func (p Policy) shouldRetry(err error) bool {
	if p.ShouldRetry != nil {
		return !IsPermanent(err) && p.ShouldRetry(err)
	}
	return Retryable(err)
}

func (p Policy) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Do runs operation until it succeeds, fails with a non-qualifying error, or
// MaxRetries retries have failed. The last failure is returned unchanged.
// Context cancellation is checked before each attempt and while waiting.
func Do(ctx context.Context, policy Policy, operation func(ctx context.Context) error) error {
	_, err := DoValue(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, policy Policy, operation func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := policy.Validate(); err != nil {
		return zero, err
	}

	logger := policy.logger()
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		value, err := operation(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Debug("operation succeeded after retry", "attempt", attempt+1)
			}
			return value, nil
		}
		lastErr = err

		if !policy.shouldRetry(err) {
			return zero, unwrapPermanent(err)
		}

		// Don't sleep after the last attempt
		if attempt == policy.MaxRetries {
			break
		}

		delay := policy.wait(attempt)
		logger.Warn("operation failed, will retry",
			"attempt", attempt+1,
			"maxRetries", policy.MaxRetries,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

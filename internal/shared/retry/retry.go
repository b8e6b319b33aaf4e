// Package retry wraps a single remote call with a fixed-count, fixed-delay
// retry policy. Every failure is retried the same way; there is no jitter and
// no growth of the delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultAttempts = 10
	DefaultDelay    = 10 * time.Second
)

// ErrExhausted is returned once every allotted attempt has failed.
var ErrExhausted = errors.New("retries exhausted")

type Retrier struct {
	attempts int
	delay    time.Duration
	logger   *slog.Logger

	// onWait is called before each inter-attempt delay.
	onWait func(attempt int, next time.Duration)
}

func New(attempts int, delay time.Duration, logger *slog.Logger) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	if delay < 0 {
		delay = 0
	}

	return &Retrier{
		attempts: attempts,
		delay:    delay,
		logger:   logger.With("component", "retry"),
	}
}

func (r *Retrier) Attempts() int {
	return r.attempts
}

func (r *Retrier) Delay() time.Duration {
	return r.delay
}

// Do invokes op until it succeeds or the attempts run out. Only a cancelled
// ctx stops the loop early; its cause is returned unchanged.
func Do[T any](ctx context.Context, r *Retrier, op func() (T, error)) (T, error) {
	attempt := 0

	operation := func() (T, error) {
		attempt++
		res, err := op()
		if err != nil {
			r.logger.Warn("Attempt failed",
				"attempt", attempt,
				"max_attempts", r.attempts,
				"error", err)
		}
		return res, err
	}

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(r.delay)),
		backoff.WithMaxTries(uint(r.attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(_ error, next time.Duration) {
			if r.onWait != nil {
				r.onWait(attempt, next)
			}
		}),
	)
	if err == nil {
		return res, nil
	}

	var zero T
	if ctxErr := context.Cause(ctx); ctxErr != nil {
		return zero, ctxErr
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
}

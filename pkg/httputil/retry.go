package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure (network error, 5xx, 429) that
// [Retry] should attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy describes a retry loop.
type Policy struct {
	// Attempts is the total number of calls, including the first. Values
	// below one mean a single call.
	Attempts int
	// Delay is the pause before the first retry.
	Delay time.Duration
	// Multiplier scales the delay after each retry. Zero keeps it fixed.
	Multiplier float64
	// RetryAll retries every error instead of only [RetryableError]s.
	RetryAll bool
	// Stop abandons pending retries when closed. The last error is
	// returned.
	Stop <-chan struct{}
	// OnAttempt, when set, is called after every call with its 1-based
	// number and result.
	OnAttempt func(attempt int, err error)
}

// Do runs fn until it succeeds, fails permanently or the attempts run out.
// It returns the last error, or ctx.Err() when ctx ends before a retry.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if p.OnAttempt != nil {
			p.OnAttempt(attempt, err)
		}
		if err == nil {
			return nil
		}
		if attempt >= attempts || !(p.RetryAll || isRetryable(err)) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if timer == nil {
			timer = time.NewTimer(delay)
		} else {
			timer.Reset(delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.Stop:
			return err
		case <-timer.C:
		}
		if p.Multiplier > 0 {
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}
}

// Retry executes fn up to attempts times, doubling delay after each failed
// attempt. Only errors wrapped with [RetryableError] are retried; other
// errors are returned immediately.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	p := Policy{Attempts: attempts, Delay: delay, Multiplier: 2}
	return p.Do(ctx, func(context.Context) error { return fn() })
}

// RetryWithBackoff is [Retry] with the registry client defaults: 3
// attempts, 1 second initial delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

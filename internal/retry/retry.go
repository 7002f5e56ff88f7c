// Package retry re-runs transient operations with a configurable backoff.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// IsRetryableFunc reports whether err is worth another attempt.
type IsRetryableFunc func(err error) bool

// Backoff returns the delay before the given attempt (1 based).
type Backoff interface {
	Delay(attempt int) time.Duration
}

// ConstantBackoff waits the same delay between attempts.
type ConstantBackoff time.Duration

func (b ConstantBackoff) Delay(int) time.Duration {
	return time.Duration(b)
}

// ExponentialBackoff grows the delay by Factor after each attempt, capped by Max.
// With Jitter the delay is drawn uniformly from [0, delay].
type ExponentialBackoff struct {
	Base   time.Duration
	Factor float64
	Max    time.Duration
	Jitter bool
}

func (b ExponentialBackoff) Delay(attempt int) time.Duration {
	factor := b.Factor
	if factor < 1 {
		factor = 2
	}
	d := float64(b.Base) * math.Pow(factor, float64(attempt-1))
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}
	if b.Jitter && d > 0 {
		d = rand.Float64() * d
	}
	return time.Duration(d)
}

type RetryOption func(*Retrier)

func WithMaxAttempts(n int) RetryOption {
	return func(r *Retrier) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

func WithBackoff(b Backoff) RetryOption {
	return func(r *Retrier) {
		r.backoff = b
	}
}

func WithIsRetryableFunc(fn IsRetryableFunc) RetryOption {
	return func(r *Retrier) {
		r.isRetryable = fn
	}
}

type Retrier struct {
	maxAttempts int
	backoff     Backoff
	isRetryable IsRetryableFunc
}

func New(opts ...RetryOption) Retrier {
	r := Retrier{
		maxAttempts: 1,
		backoff:     ConstantBackoff(100 * time.Millisecond),
		isRetryable: func(error) bool { return true },
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Do calls fn until it succeeds, returns a non-retryable error, runs out of
// attempts or ctx is done. The last error from fn is returned.
func (r Retrier) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || attempt >= r.maxAttempts || !r.isRetryable(err) {
			return err
		}

		timer := time.NewTimer(r.backoff.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

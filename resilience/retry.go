package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures Retry.
type RetryConfig struct {
	// MaxAttempts counts the first attempt.
	MaxAttempts int
	// InitialBackoff is the wait after the first failure.
	InitialBackoff time.Duration
	// MaxBackoff caps every wait.
	MaxBackoff time.Duration
	// BackoffFactor multiplies the wait after each failure.
	BackoffFactor float64
	// Jitter spreads each wait by up to ±Jitter of its value (0 to 1).
	Jitter float64
	// RetryIf reports whether err is worth another attempt.
	RetryIf func(error) bool
	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// DefaultRetryIf retries everything except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2.0
	}
	if c.RetryIf == nil {
		c.RetryIf = DefaultRetryIf
	}
}

// Retry calls fn until it succeeds, RetryIf rejects its error or MaxAttempts
// is reached, returning the last error. ctx cancellation stops the loop with
// ctx.Err().
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg.applyDefaults()
	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.RetryIf(err) || attempt == cfg.MaxAttempts {
			break
		}

		wait := Backoff(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// RetryFunc is Retry for functions without a result.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Backoff returns the wait after the given failed attempt:
// InitialBackoff * BackoffFactor^(attempt-1), jittered and capped.
func Backoff(attempt int, cfg RetryConfig) time.Duration {
	cfg.applyDefaults()
	d := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt-1))

	if cfg.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * cfg.Jitter
	}
	if d > float64(cfg.MaxBackoff) {
		d = float64(cfg.MaxBackoff)
	}
	if d < 0 {
		d = float64(cfg.InitialBackoff)
	}
	return time.Duration(d)
}

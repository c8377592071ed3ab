package resilience

import (
	"context"
	"math/rand"
	"time"
)

// Retryer re-executes a failing exchange according to its policy. The
// function is retried until it succeeds, the policy is exhausted, or the
// context is done.
type Retryer interface {
	Do(ctx context.Context, fn func() error) error
}

// NoRetryer performs exactly one attempt. It is the registered default:
// retrying is opt-in per client.
type NoRetryer struct{}

// Do implements Retryer.
func (NoRetryer) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

// RetryConfig configures exponential backoff retry.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between retries.
	MaxBackoff time.Duration
	// BackoffFactor multiplies the delay after each attempt.
	BackoffFactor float64
	// Jitter adds randomness (0.0-1.0) to backoff to avoid thundering herd.
	Jitter float64
	// RetryIf decides whether an error is retryable. Nil retries everything.
	RetryIf func(error) bool
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.1,
	}
}

// ExponentialRetryer retries with exponential backoff and optional jitter.
type ExponentialRetryer struct {
	config RetryConfig
}

// NewExponentialRetryer creates a retryer from the config, applying
// defaults to unset fields.
func NewExponentialRetryer(config RetryConfig) *ExponentialRetryer {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = 100 * time.Millisecond
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 5 * time.Second
	}
	if config.BackoffFactor <= 0 {
		config.BackoffFactor = 2.0
	}
	return &ExponentialRetryer{config: config}
}

// Do implements Retryer.
func (r *ExponentialRetryer) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	backoff := r.config.InitialBackoff

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if r.config.RetryIf != nil && !r.config.RetryIf(lastErr) {
			return lastErr
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := backoff
		if r.config.Jitter > 0 {
			jitter := time.Duration(float64(delay) * r.config.Jitter * rand.Float64())
			delay += jitter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		backoff = time.Duration(float64(backoff) * r.config.BackoffFactor)
		if backoff > r.config.MaxBackoff {
			backoff = r.config.MaxBackoff
		}
	}
	return lastErr
}

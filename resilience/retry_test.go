package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoRetryer_SingleAttempt(t *testing.T) {
	calls := 0
	err := NoRetryer{}.Do(context.Background(), func() error {
		calls++
		return errBoom
	})
	if !errors.Is(err, errBoom) || calls != 1 {
		t.Errorf("got err=%v calls=%d", err, calls)
	}
}

func TestExponentialRetryer_SucceedsAfterRetries(t *testing.T) {
	r := NewExponentialRetryer(RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	})

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("got err=%v calls=%d", err, calls)
	}
}

func TestExponentialRetryer_ExhaustsAttempts(t *testing.T) {
	r := NewExponentialRetryer(RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
	})

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return errBoom
	})
	if !errors.Is(err, errBoom) || calls != 2 {
		t.Errorf("got err=%v calls=%d", err, calls)
	}
}

func TestExponentialRetryer_RetryIf(t *testing.T) {
	permanent := errors.New("permanent")
	r := NewExponentialRetryer(RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
		RetryIf:        func(err error) bool { return !errors.Is(err, permanent) },
	})

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("non-retryable error should stop immediately: err=%v calls=%d", err, calls)
	}
}

func TestExponentialRetryer_ContextCancellation(t *testing.T) {
	r := NewExponentialRetryer(RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: 50 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := r.Do(ctx, func() error {
		calls++
		return errBoom
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls == 0 || calls >= 10 {
		t.Errorf("expected cancellation mid-way, calls=%d", calls)
	}
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	policy := RetryPolicy{Attempts: 2, Backoff: time.Millisecond}
	base := errors.New("still down")
	err := policy.Do(context.Background(), func() error { return base })
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !errors.Is(err, base) {
		t.Error("final error should wrap the last failure")
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("error should mention attempt count: %v", err)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{Attempts: 5, Backoff: time.Minute}
	calls := 0
	err := policy.Do(ctx, func() error {
		calls++
		return errors.New("never retried")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("cancelled context should prevent the first attempt, got %d calls", calls)
	}
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	policy := RetryPolicy{}
	calls := 0
	_ = policy.Do(context.Background(), func() error {
		calls++
		return errors.New("once")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

// ABOUTME: Tests for retry and backoff utilities
// ABOUTME: Verifies exponential growth, caps, and retry loop behavior
package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff_ZeroAttempt(t *testing.T) {
	if d := CalculateBackoff(time.Second, 0); d != 0 {
		t.Errorf("CalculateBackoff(1s, 0) = %v, want 0", d)
	}
	if d := CalculateBackoff(time.Second, -1); d != 0 {
		t.Errorf("CalculateBackoff(1s, -1) = %v, want 0", d)
	}
	if d := CalculateBackoff(0, 3); d != 0 {
		t.Errorf("CalculateBackoff(0, 3) = %v, want 0", d)
	}
}

func TestCalculateBackoff_Grows(t *testing.T) {
	base := 100 * time.Millisecond

	// With +/-25% jitter, attempt 1 lands in [150ms, 250ms]
	// and attempt 2 in [300ms, 500ms].
	d1 := CalculateBackoff(base, 1)
	if d1 < 150*time.Millisecond || d1 > 250*time.Millisecond {
		t.Errorf("attempt 1 backoff = %v, want within [150ms, 250ms]", d1)
	}

	d2 := CalculateBackoff(base, 2)
	if d2 < 300*time.Millisecond || d2 > 500*time.Millisecond {
		t.Errorf("attempt 2 backoff = %v, want within [300ms, 500ms]", d2)
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	// Huge attempt count must not overflow and must respect the 30s cap
	// (plus up to 25% jitter).
	d := CalculateBackoff(time.Second, 100)
	if d > 38*time.Second {
		t.Errorf("backoff = %v, want <= 37.5s", d)
	}
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_EventualSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	wantErr := errors.New("permanent")
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Retry() error = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 5, time.Minute, func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}

package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"
)

func fastBackoff(attempts int) *Backoff {
	return &Backoff{
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   1.5,
		MaxAttempts:  attempts,
	}
}

func TestBackoff_SuccessAfterRetries(t *testing.T) {
	b := fastBackoff(10)
	calls := 0

	err := b.Do(context.Background(), func(attempt int) error {
		calls++
		if attempt < 3 {
			return fmt.Errorf("connection refused")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBackoff_SingleAttemptReturnsErrorUnchanged(t *testing.T) {
	b := fastBackoff(1)
	err := b.Do(context.Background(), func(int) error { return io.EOF })
	if err != io.EOF {
		t.Fatalf("err = %v, want io.EOF unchanged", err)
	}
}

func TestBackoff_PermanentError(t *testing.T) {
	b := fastBackoff(10)
	calls := 0

	err := b.Do(context.Background(), func(_ int) error {
		calls++
		return Permanent(fmt.Errorf("fatal"))
	})

	if err == nil || err.Error() != "fatal" {
		t.Fatalf("expected 'fatal', got %v", err)
	}
	if calls != 1 {
		t.Errorf("permanent error should stop after 1 call, got %d", calls)
	}
}

func TestBackoff_MaxAttemptsWrapsLastError(t *testing.T) {
	b := fastBackoff(3)
	calls := 0
	sentinel := errors.New("always fails")

	err := b.Do(context.Background(), func(_ int) error {
		calls++
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, should wrap the last attempt error", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBackoff_OnRetry(t *testing.T) {
	b := fastBackoff(3)
	var seen []int
	b.OnRetry = func(attempt int, err error, wait time.Duration) {
		seen = append(seen, attempt)
		if wait <= 0 {
			t.Errorf("attempt %d: wait = %v", attempt, wait)
		}
	}

	_ = b.Do(context.Background(), func(int) error { return io.EOF })

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", seen)
	}
}

func TestBackoff_ContextCancelled(t *testing.T) {
	b := &Backoff{InitialDelay: 5 * time.Second, MaxAttempts: 100}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := b.Do(ctx, func(_ int) error { return io.EOF })

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, should still carry the attempt error", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("cancellation did not interrupt the wait")
	}
}

func TestAttempts(t *testing.T) {
	b := Attempts(4, 10*time.Millisecond, time.Second)
	if b.MaxAttempts != 4 || b.InitialDelay != 10*time.Millisecond || b.MaxDelay != time.Second {
		t.Errorf("unexpected backoff %+v", b)
	}
	if !b.Jitter {
		t.Error("Attempts should enable jitter")
	}
}

func TestPermanent_Nil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestIsPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"permanent", Permanent(fmt.Errorf("x")), true},
		{"wrapped permanent", fmt.Errorf("open: %w", Permanent(fmt.Errorf("x"))), true},
		{"not permanent", fmt.Errorf("x"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermanent(tt.err); got != tt.want {
				t.Errorf("IsPermanent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJitter_Range(t *testing.T) {
	d := 100 * time.Millisecond
	for i := 0; i < 100; i++ {
		j := addJitter(d)
		lower := time.Duration(float64(d) * 0.74)
		upper := time.Duration(float64(d) * 1.26)
		if j < lower || j > upper {
			t.Errorf("jitter %v out of expected range [%v, %v]", j, lower, upper)
		}
	}
}

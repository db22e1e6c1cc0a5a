package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffDo(t *testing.T) {
	transient := &RetryableError{Err: errors.New("flaky")}
	permanent := errors.New("broken")

	tests := []struct {
		name      string
		failures  []error
		wantErr   error
		wantCalls int
	}{
		{"success", nil, nil, 1},
		{"recovers", []error{transient, transient}, nil, 3},
		{"gives up", []error{transient, transient, transient, transient}, transient, 3},
		{"permanent", []error{permanent}, permanent, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Backoff{Attempts: 3, Delay: time.Millisecond}
			calls := 0
			err := b.Do(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffHonorsRetryAfterUpToMax(t *testing.T) {
	b := Backoff{Attempts: 2, Delay: time.Millisecond, Max: 20 * time.Millisecond}
	start := time.Now()
	calls := 0
	b.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errors.New("slow down"), After: time.Hour}
		}
		return nil
	})
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond || elapsed > time.Second {
		t.Errorf("waited %v, want about 20ms", elapsed)
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := Backoff{Attempts: 3, Delay: time.Hour}
	err := b.Do(ctx, func() error { return &RetryableError{Err: errors.New("flaky")} })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryAfter(t *testing.T) {
	if got := retryAfter("3"); got != 3*time.Second {
		t.Errorf("retryAfter(3) = %v", got)
	}
	if got := retryAfter(""); got != 0 {
		t.Errorf("retryAfter(\"\") = %v", got)
	}
	if got := retryAfter("soon"); got != 0 {
		t.Errorf("retryAfter(soon) = %v", got)
	}
}

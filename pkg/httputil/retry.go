package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps a transient failure so that [Backoff.Do] attempts
// the operation again. After, when positive, is the server's requested
// wait before the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Backoff is a retry policy with exponentially growing delays.
type Backoff struct {
	Attempts int           // total attempts, at least 1
	Delay    time.Duration // wait after the first failure
	Max      time.Duration // cap for any single wait; 0 means no cap
}

// DefaultBackoff makes 3 attempts, waiting 1s and then 2s.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, Max: 10 * time.Second}

// Do calls fn until it succeeds, fails with an error that is not a
// [RetryableError], or the attempts are used up. It returns the last error,
// or ctx.Err() if ctx ends while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || attempt >= max(b.Attempts, 1) {
			return err
		}

		wait := max(delay, re.After)
		if b.Max > 0 {
			wait = min(wait, b.Max)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

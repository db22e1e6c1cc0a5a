package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// ErrNetwork reports that a remote cache backend could not be reached.
var ErrNetwork = errors.New("cache network error")

// retryPolicy bounds retries of remote cache calls. Lookups sit on the
// render path, so the waits stay short: a backend that keeps failing costs
// a re-render, not a stalled request.
type retryPolicy struct {
	attempts int
	delay    time.Duration
}

var redisRetry = retryPolicy{attempts: 3, delay: 50 * time.Millisecond}

// transient reports whether err is a connection-level failure worth another
// attempt. Cancellation and server replies are final.
func transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// do runs fn until it succeeds or fails for good. A transient failure that
// outlasts the attempts is reported as ErrNetwork, naming op.
func (p retryPolicy) do(ctx context.Context, op string, fn func() error) error {
	delay := p.delay
	for attempt := 1; ; attempt++ {
		err := fn()
		switch {
		case err == nil:
			return nil
		case !transient(err):
			return err
		case attempt >= p.attempts:
			return fmt.Errorf("%w: %s: %v", ErrNetwork, op, err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

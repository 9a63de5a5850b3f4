// Package retry provides the outbound-call backoff executor and the bounded
// poll loop shared by clients that talk to rate-limited or eventually-ready
// remote resources.
package retry

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrPollTimeout is returned by Poll when the resource never became ready
// within the attempt budget.
var ErrPollTimeout = errors.New("retry: poll attempts exhausted")

// Executor retries an HTTP call on 429 responses with exponential backoff.
// Any other outcome, success or failure, is returned to the caller immediately.
type Executor struct {
	MaxAttempts int           // backoff attempts before the final unconditional one
	BaseDelay   time.Duration // first backoff step, doubled on each retry
}

// NewExecutor returns an Executor with the given attempt budget and the
// standard 1s base delay.
func NewExecutor(maxAttempts int) Executor {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return Executor{MaxAttempts: maxAttempts, BaseDelay: time.Second}
}

// Do invokes call until it returns something other than HTTP 429, sleeping
// baseDelay*2^attempt between rate-limited attempts. After MaxAttempts
// rate-limited responses it performs one final attempt and returns its result
// as-is, even if still rate-limited.
func (e Executor) Do(ctx context.Context, call func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	delay := e.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}

	for attempt := 0; attempt < e.MaxAttempts; attempt++ {
		resp, err := call(ctx)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		resp.Body.Close()
		if err := sleep(ctx, delay<<attempt); err != nil {
			return nil, err
		}
	}

	return call(ctx)
}

// Poll invokes check every interval until it reports done, fails, or
// maxAttempts is reached. The first check runs immediately.
func Poll(ctx context.Context, interval time.Duration, maxAttempts int, check func(ctx context.Context) (bool, error)) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, interval); err != nil {
				return err
			}
		}

		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}

	return ErrPollTimeout
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package payments

import (
	"context"
	"fmt"
	"time"
)

// Backoff lists the waits between attempts. Attempts past the end of the list reuse
// the last wait.
type Backoff []time.Duration

var DefaultBackoff = Backoff{1 * time.Second, 2 * time.Second, 4 * time.Second}

// RetryWithBackoff executes fn up to maxRetries times using DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	return DefaultBackoff.Retry(ctx, fn, maxRetries)
}

func (b Backoff) Retry(ctx context.Context, fn func() error, maxRetries int) error {
	return b.RetryIf(ctx, fn, maxRetries, nil)
}

// RetryIf is Retry that gives up as soon as retryable reports false for an error.
// A nil retryable retries every error.
func (b Backoff) RetryIf(ctx context.Context, fn func() error, maxRetries int, retryable func(error) bool) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if retryable != nil && !retryable(err) {
			return fmt.Errorf("giving up after %d attempts: %w", i+1, err)
		}
		if i == maxRetries-1 || len(b) == 0 {
			continue
		}
		wait := b[len(b)-1]
		if i < len(b) {
			wait = b[i]
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempts: %w", i+1, ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

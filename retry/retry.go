// Package retry provides the bounded-retry combinator used wherever a
// missing artifact is regenerated. Retry policy lives here, not in loop
// counters.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted marks a retry budget spent without success. The last attempt
// error is wrapped alongside it.
var ErrExhausted = errors.New("retry budget exhausted")

// Do runs fn up to attempts times, waiting delay between attempts. It stops
// early on success or context cancellation. attempts < 1 is treated as 1.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Policy controls retry behaviour for page fetches
type Policy struct {
	// MaxAttempts is the total number of attempts including the first
	MaxAttempts int

	// BaseDelay is multiplied by the attempt number between attempts
	BaseDelay time.Duration
}

// RetryableFunc is a function that may be retried
type RetryableFunc func() error

// WithRetry runs fn up to policy.MaxAttempts times with an escalating
// delay between attempts. The context aborts both waiting and further
// attempts.
func WithRetry(ctx context.Context, logger *zap.Logger, policy Policy, fn RetryableFunc) error {
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.BaseDelay * time.Duration(attempt)

		logger.Warn("Fetch attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

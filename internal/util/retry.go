package util

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WithRetry runs fn until it succeeds or attempts are exhausted. The delay
// between attempts starts at baseDelay and grows by 1.5x each time.
func WithRetry[T any](ctx context.Context, logger *zap.Logger, op string, attempts int, baseDelay time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	delay := baseDelay

	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		if attempt >= attempts {
			return zero, err
		}

		logger.Warn("Operation failed, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Int("remaining", attempts-attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}

		delay = time.Duration(float64(delay) * 1.5)
	}
}

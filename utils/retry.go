package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned by Retry when every attempt failed or came back empty.
var ErrExhausted = errors.New("retries exhausted")

// errEmptyResult marks an attempt that succeeded but produced nothing usable.
var errEmptyResult = errors.New("empty result")

// RetryConfig holds the parameters for the retry strategy.
// The delay between attempts is fixed.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Logger      *Logger
}

// Do executes fn until it returns nil or MaxAttempts is reached.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func(ctx context.Context) error) error {
	_, err := Retry(ctx, r, operationName,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, fn(ctx) },
		func(struct{}) bool { return false },
	)
	return err
}

// Retry runs op up to cfg.MaxAttempts times, waiting cfg.Delay between
// attempts. A nil cfg.Logger discards retry warnings. An attempt fails when op returns an error or when isEmpty reports
// its result as empty. The first non-empty result is returned. When every
// attempt fails the returned error wraps ErrExhausted and the last cause.
func Retry[T any](
	ctx context.Context,
	cfg *RetryConfig,
	operationName string,
	op func(ctx context.Context) (T, error),
	isEmpty func(T) bool,
) (T, error) {
	var zero T
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewNopLogger()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil && !isEmpty(result) {
			return result, nil
		}
		if err == nil {
			err = errEmptyResult
		}
		lastErr = err

		if attempt < attempts {
			logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, attempts, err, cfg.Delay)
			if err := Sleep(ctx, cfg.Delay); err != nil {
				return zero, fmt.Errorf("%s: %w", operationName, err)
			}
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w: %w", operationName, attempts, ErrExhausted, lastErr)
}

// Sleep blocks for d or until ctx is done. A non-positive d returns at once.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetry(attempts int) *RetryConfig {
	return &RetryConfig{MaxAttempts: attempts, Delay: 0, Logger: NewNopLogger()}
}

func isEmptySlice(s []string) bool { return len(s) == 0 }

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), newTestRetry(3), "op",
		func(context.Context) ([]string, error) {
			calls++
			return []string{"a"}, nil
		}, isEmptySlice)

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, calls)
}

func TestRetryAlwaysFailingRunsExactlyMaxAttempts(t *testing.T) {
	for _, k := range []int{1, 2, 5} {
		calls := 0
		_, err := Retry(context.Background(), newTestRetry(k), "op",
			func(context.Context) ([]string, error) {
				calls++
				return nil, errors.New("connection refused")
			}, isEmptySlice)

		assert.ErrorIs(t, err, ErrExhausted)
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, k, calls, "maxAttempts=%d", k)
	}
}

func TestRetryTreatsEmptyAsFailure(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), newTestRetry(4), "op",
		func(context.Context) ([]string, error) {
			calls++
			if calls < 3 {
				return nil, nil
			}
			return []string{"x", "y"}, nil
		}, isEmptySlice)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 3, calls)
}

func TestRetryMixedErrorsAndEmpty(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), newTestRetry(3), "op",
		func(context.Context) ([]string, error) {
			calls++
			if calls%2 == 0 {
				return nil, errors.New("timeout")
			}
			return []string{}, nil
		}, isEmptySlice)

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 3, calls)
}

func TestRetryNonPositiveAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), newTestRetry(0), "op",
		func(context.Context) ([]string, error) {
			calls++
			return nil, nil
		}, isEmptySlice)

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls)
}

func TestRetryWaitsBetweenAttempts(t *testing.T) {
	cfg := &RetryConfig{MaxAttempts: 3, Delay: 20 * time.Millisecond, Logger: NewNopLogger()}

	start := time.Now()
	_, err := Retry(context.Background(), cfg, "op",
		func(context.Context) ([]string, error) { return nil, nil }, isEmptySlice)

	assert.Error(t, err)
	// two pauses between three attempts, none after the last
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	cfg := &RetryConfig{MaxAttempts: 5, Delay: time.Hour, Logger: NewNopLogger()}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Retry(ctx, cfg, "op",
		func(context.Context) ([]string, error) {
			calls++
			cancel()
			return nil, errors.New("boom")
		}, isEmptySlice)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryConfigDo(t *testing.T) {
	calls := 0
	err := newTestRetry(3).Do(context.Background(), "ping", func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("not ready")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryWithoutLogger(t *testing.T) {
	cfg := &RetryConfig{MaxAttempts: 3}
	calls := 0

	var err error
	require.NotPanics(t, func() {
		err = cfg.Do(context.Background(), "op", func(context.Context) error {
			calls++
			return errors.New("connection refused")
		})
	})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 3, calls)
}

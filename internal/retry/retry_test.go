package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_Success(t *testing.T) {
	cfg := Config{
		MaxAttempts:    3,
		InitialBackoff: 10 * time.Millisecond,
	}

	called := 0
	err := Do(context.Background(), cfg, func(attempt int) error {
		called++
		assert.Equal(t, called, attempt)
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, called, "should succeed on first attempt")
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	var retried []int
	cfg := Config{
		MaxAttempts:    5,
		InitialBackoff: 1 * time.Millisecond,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			retried = append(retried, attempt)
		},
	}

	called := 0
	err := Do(context.Background(), cfg, func(int) error {
		called++
		if called < 3 {
			return errors.New("instance not ready")
		}
		return nil
	}, func(err error) bool {
		return true
	})

	require.NoError(t, err)
	assert.Equal(t, 3, called, "should succeed on third attempt")
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_ExhaustedAttempts(t *testing.T) {
	cfg := Config{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
	}

	called := 0
	testErr := errors.New("handshake rejected")
	err := Do(context.Background(), cfg, func(int) error {
		called++
		return testErr
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 3, called)
	assert.ErrorIs(t, err, testErr)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestDo_SingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	testErr := errors.New("handshake rejected")
	err := Do(context.Background(), Config{MaxAttempts: 1}, func(int) error {
		return testErr
	}, nil)

	assert.Equal(t, testErr, err)
}

func TestDo_ZeroAttemptsCallsOnce(t *testing.T) {
	called := 0
	err := Do(context.Background(), Config{}, func(int) error {
		called++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, called)
}

func TestDo_NonRetryableError(t *testing.T) {
	cfg := Config{
		MaxAttempts:    5,
		InitialBackoff: 1 * time.Millisecond,
	}

	permanent := errors.New("unauthorized")
	called := 0
	err := Do(context.Background(), cfg, func(int) error {
		called++
		return permanent
	}, func(err error) bool {
		return !errors.Is(err, permanent)
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, called, "should not retry non-retryable error")
}

func TestDo_ContextCanceled(t *testing.T) {
	cfg := Config{
		MaxAttempts:    10,
		InitialBackoff: 1 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	called := 0
	err := Do(ctx, cfg, func(int) error {
		called++
		cancel()
		return errors.New("instance not ready")
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, called)
}

func TestCalculateBackoff_ExponentialGrowth(t *testing.T) {
	cfg := Config{
		MaxAttempts:    5,
		InitialBackoff: 100 * time.Millisecond,
	}

	assert.Equal(t, 100*time.Millisecond, calculateBackoff(cfg, 1))
	assert.Equal(t, 200*time.Millisecond, calculateBackoff(cfg, 2))
	assert.Equal(t, 400*time.Millisecond, calculateBackoff(cfg, 3))
	assert.Equal(t, 800*time.Millisecond, calculateBackoff(cfg, 4))
}

func TestCalculateBackoff_MaxBackoffCap(t *testing.T) {
	cfg := Config{
		MaxAttempts:    10,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     300 * time.Millisecond,
	}

	assert.Equal(t, 200*time.Millisecond, calculateBackoff(cfg, 2))
	assert.Equal(t, 300*time.Millisecond, calculateBackoff(cfg, 3))
	assert.Equal(t, 300*time.Millisecond, calculateBackoff(cfg, 8))
}

func TestCalculateBackoff_WithJitter(t *testing.T) {
	cfg := Config{
		MaxAttempts:    5,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
		Jitter:         0.5,
	}

	assert.Equal(t, 110*time.Millisecond, calculateBackoff(cfg, 1))
	assert.Equal(t, 240*time.Millisecond, calculateBackoff(cfg, 2))
	assert.Equal(t, 520*time.Millisecond, calculateBackoff(cfg, 3))
	assert.Equal(t, 1120*time.Millisecond, calculateBackoff(cfg, 4))
}

package payments_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"agency-backend/internal/payments"
)

var fast = payments.Backoff{time.Millisecond}

func TestRetryWithBackoff(t *testing.T) {
	callCount := 0
	err := fast.Retry(context.Background(), func() error {
		callCount++
		if callCount < 3 {
			return assert.AnError
		}
		return nil
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	callCount := 0
	err := fast.Retry(context.Background(), func() error {
		callCount++
		return assert.AnError
	}, 3)

	assert.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed after 3 retries")
	assert.Equal(t, 3, callCount)
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	callCount := 0
	err := payments.Backoff{time.Hour}.Retry(ctx, func() error {
		callCount++
		return assert.AnError
	}, 3)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, callCount)
}

func TestRetryIf_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")
	callCount := 0
	err := fast.RetryIf(context.Background(), func() error {
		callCount++
		return permanent
	}, 3, func(err error) bool { return !errors.Is(err, permanent) })

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, callCount)
}

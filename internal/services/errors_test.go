package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(ErrNetworkUnavailable))
	assert.True(t, IsRetryableError(ErrTimeout))
	assert.True(t, IsRetryableError(ErrServiceUnavailable))
	assert.True(t, IsRetryableError(ErrChannelClosed))
	assert.True(t, IsRetryableError(fmt.Errorf("wrapped: %w", ErrTimeout)))

	assert.False(t, IsRetryableError(ErrNotFound))
	assert.False(t, IsRetryableError(errors.New("unclassified")))
	assert.False(t, IsRetryableError(nil))
}

func TestIsPermanentError(t *testing.T) {
	assert.True(t, IsPermanentError(ErrNotFound))
	assert.True(t, IsPermanentError(ErrInvalidInput))
	assert.True(t, IsPermanentError(ErrDataCorrupted))
	assert.True(t, IsPermanentError(fmt.Errorf("wrapped: %w", ErrInvalidInput)))

	assert.False(t, IsPermanentError(ErrTimeout))
	assert.False(t, IsPermanentError(nil))
}

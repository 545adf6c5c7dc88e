package services

import "errors"

// Standard service errors for comprehensive error handling
var (
	// Network and connectivity errors
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrTimeout            = errors.New("operation timed out")
	ErrChannelClosed      = errors.New("live channel closed")

	// Data errors
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input provided")
	ErrDataCorrupted = errors.New("data corrupted")

	// Cache errors
	ErrCacheUnavailable = errors.New("cache unavailable")

	// Service errors
	ErrServiceUnavailable = errors.New("service unavailable")

	// Async result superseded by navigation
	ErrStaleResult = errors.New("stale result discarded")

	// Pagination errors
	ErrNoContinuation = errors.New("no continuation token for next page")
)

// IsRetryableError determines if an error should be retried
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrChannelClosed)
}

// IsPermanentError determines if an error is permanent and should not be retried
func IsPermanentError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDataCorrupted)
}

package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// APIError is a structured error for HTTP responses with a status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d - %s", e.StatusCode, e.Message)
}

// Retry runs fn with exponential backoff for temporary errors. Permanent
// errors return immediately.
func Retry[T any](ctx context.Context, logger *zap.Logger, maxAttempts int, initialBackoff time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var result T
	backoff := initialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}

		if IsTemporaryError(err) && attempt < maxAttempts {
			logger.Warn("Temporary error, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
				zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return result, ctx.Err()
			}
			backoff *= 2
			continue
		}

		logger.Error("Request failed, aborting",
			zap.Int("attempt", attempt),
			zap.Error(err))
		return result, err
	}

	return result, fmt.Errorf("failed after %d attempts", maxAttempts)
}

// IsTemporaryError reports whether the error is worth retrying: timeouts,
// rate limiting (429) and server errors (5xx).
func IsTemporaryError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || (apiErr.StatusCode >= 500 && apiErr.StatusCode < 600)
	}
	return false
}

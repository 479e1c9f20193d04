// Package finnhub provides a client for the Finnhub market-data API.
// This package centralizes all Finnhub interactions for the application.
package finnhub

import (
	"errors"
	"fmt"
	"time"
)

// APIError represents a non-2xx response from the Finnhub API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Finnhub API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError is returned on HTTP 429 or when the local limiter cannot admit a request.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Finnhub rate limit exceeded, retry after %v", e.RetryAfter)
}

// IsRateLimited reports whether err is a rate limit error.
func IsRateLimited(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

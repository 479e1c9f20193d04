package llm

import (
	"errors"
	"testing"
	"time"
)

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		err  error
		want time.Duration
	}{
		{nil, 0},
		{errors.New("boom"), 0},
		{errors.New("Error 429 ... Please retry in 4.5s., Status: RESOURCE_EXHAUSTED"), 4500 * time.Millisecond},
		{errors.New("retryDelay: 3s"), 3 * time.Second},
	}

	for _, tt := range tests {
		if got := ExtractRetryDelay(tt.err); got != tt.want {
			t.Errorf("ExtractRetryDelay(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestCalculateBackoff(t *testing.T) {
	c := NewDefaultRetryConfig()

	tests := []struct {
		attempt  int
		apiDelay time.Duration
		want     time.Duration
	}{
		{0, 0, time.Second},
		{1, 0, 2 * time.Second},
		{2, 0, 4 * time.Second},
		{5, 0, DefaultMaxBackoff},
		{0, 3 * time.Second, 3 * time.Second},
		{1, 6 * time.Second, DefaultMaxBackoff},
	}

	for _, tt := range tests {
		if got := c.CalculateBackoff(tt.attempt, tt.apiDelay); got != tt.want {
			t.Errorf("CalculateBackoff(%d, %v) = %v, want %v", tt.attempt, tt.apiDelay, got, tt.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("rpc error: UNAVAILABLE"), true},
		{errors.New("529 overloaded_error"), true},
		{errors.New("400 invalid request"), false},
	}

	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

package ai

import (
	"context"
	"fmt"

	"finadvisor/internal/adapters/ratelimit"
)

// RateLimitError wraps rate limit related errors with provider context.
type RateLimitError struct {
	Provider ProviderName
	Limiter  string
	Err      error
}

// Error implements error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit error for provider %s (%s): %v", e.Provider, e.Limiter, e.Err)
}

// Unwrap returns the underlying error.
func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// waitForSlot blocks on limiter, which may be nil
func waitForSlot(ctx context.Context, provider ProviderName, limiter *ratelimit.Limiter) error {
	if err := limiter.Wait(ctx); err != nil {
		return &RateLimitError{Provider: provider, Limiter: limiter.Name(), Err: err}
	}
	return nil
}

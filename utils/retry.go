package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// RetryPolicy describes how a fetch attempt loop behaves. It is plain data:
// the orchestrator consumes it, the policy itself never sleeps.
type RetryPolicy struct {
	MaxAttempts int
	// JitterMin/JitterMax bound the randomized delay between retries of
	// transient (5xx, timeout, transport) failures.
	JitterMin time.Duration
	JitterMax time.Duration
	// RateLimitDelay is the extended back-off applied after a 429. It must
	// exceed every source's normal inter-request delay.
	RateLimitDelay time.Duration
}

// Jitter returns a randomized transient-retry delay within the policy bounds.
func (p RetryPolicy) Jitter() time.Duration {
	if p.JitterMax <= p.JitterMin {
		return p.JitterMin
	}
	return p.JitterMin + time.Duration(rand.Int63n(int64(p.JitterMax-p.JitterMin)))
}

// RetryConfig holds the parameters for simple exponential back-off retries
// of whole operations (connection setup, one-shot probes).
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
	Clock       Clock
}

// Do executes fn with exponential back-off retry logic.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	clock := r.Clock
	if clock == nil {
		clock = RealClock()
	}

	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, delay)
			clock.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}

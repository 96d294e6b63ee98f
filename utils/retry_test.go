package utils

import (
	"errors"
	"testing"
	"time"
)

type countingClock struct {
	sleeps []time.Duration
}

func (c *countingClock) Now() time.Time        { return time.Time{} }
func (c *countingClock) Sleep(d time.Duration) { c.sleeps = append(c.sleeps, d) }

func TestRetryConfigSucceedsEventually(t *testing.T) {
	clock := &countingClock{}
	retry := &RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		Logger:      NewLogger(),
		Clock:       clock,
	}

	attempts := 0
	err := retry.Do("connect", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	// Exponential back-off: 100ms then 200ms.
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(clock.sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", clock.sleeps, want)
	}
	for i := range want {
		if clock.sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, clock.sleeps[i], want[i])
		}
	}
}

func TestRetryConfigExhaustsAttempts(t *testing.T) {
	retry := &RetryConfig{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		Logger:      NewLogger(),
		Clock:       &countingClock{},
	}

	sentinel := errors.New("broken")
	err := retry.Do("connect", func() error { return sentinel })

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error %v does not wrap the last failure", err)
	}
}

func TestRetryPolicyJitterBounds(t *testing.T) {
	policy := RetryPolicy{JitterMin: time.Second, JitterMax: 3 * time.Second}

	for i := 0; i < 100; i++ {
		d := policy.Jitter()
		if d < policy.JitterMin || d >= policy.JitterMax {
			t.Fatalf("jitter %v outside [%v, %v)", d, policy.JitterMin, policy.JitterMax)
		}
	}
}

func TestRetryPolicyJitterDegenerateRange(t *testing.T) {
	policy := RetryPolicy{JitterMin: time.Second, JitterMax: time.Second}
	if d := policy.Jitter(); d != time.Second {
		t.Errorf("jitter = %v, want the fixed minimum", d)
	}
}

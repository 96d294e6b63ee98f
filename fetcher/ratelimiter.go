package fetcher

import (
	"sync"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// RateLimiter enforces a minimum delay between consecutive requests to the
// same source. The per-source slot lock is held across the wait, so two
// tasks ready at the same moment cannot both believe they may proceed.
// Requests to one source are serialized at the configured delay.
type RateLimiter struct {
	mu    sync.Mutex
	slots map[string]*sourceSlot
	clock utils.Clock
}

type sourceSlot struct {
	mu   sync.Mutex
	last time.Time
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(clock utils.Clock) *RateLimiter {
	if clock == nil {
		clock = utils.RealClock()
	}
	return &RateLimiter{
		slots: make(map[string]*sourceSlot),
		clock: clock,
	}
}

// Wait blocks until at least delay has elapsed since the previous request
// to the source, then records the new request time.
func (r *RateLimiter) Wait(source string, delay time.Duration) {
	slot := r.slot(source)

	slot.mu.Lock()
	defer slot.mu.Unlock()

	if !slot.last.IsZero() {
		elapsed := r.clock.Now().Sub(slot.last)
		if elapsed < delay {
			r.clock.Sleep(delay - elapsed)
		}
	}
	slot.last = r.clock.Now()
}

func (r *RateLimiter) slot(source string) *sourceSlot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[source]
	if !ok {
		s = &sourceSlot{}
		r.slots[source] = s
	}
	return s
}

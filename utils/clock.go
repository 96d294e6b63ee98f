package utils

import "time"

// Clock abstracts time for components that sleep or expire entries, so
// back-off and TTL logic can be unit-tested without real wall-clock delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock returns the wall-clock implementation used in production.
func RealClock() Clock { return realClock{} }

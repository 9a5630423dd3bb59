package data

import (
	"sync"
	"time"
)

// TimeProvider stamps created_at/updated_at so tests can pin receiver timestamps.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the wall clock in UTC.
type RealTimeProvider struct{}

// Now returns the current UTC time.
func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// FixedTimeProvider returns a manually advanced time.
type FixedTimeProvider struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedTimeProvider starts the clock at t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{t: t}
}

// Now returns the pinned time.
func (f *FixedTimeProvider) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// AddTime advances the pinned time by d.
func (f *FixedTimeProvider) AddTime(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

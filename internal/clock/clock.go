// Package clock abstracts the wall clock so that timer and validation logic
// stays deterministic under test. Production code uses System; tests inject
// a Fixed or Manual clock.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time. Everything in the core that reads time
// depends on this interface rather than calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// System is the default Clock backed by the standard library.
var System Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

// NewFixed returns a Clock pinned to t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{T: t}
}

func (f *Fixed) Now() time.Time {
	return f.T
}

// Manual is a test clock whose time only moves when told to.
type Manual struct {
	mu      sync.RWMutex
	current time.Time
}

// NewManual returns a Manual clock starting at t.
func NewManual(t time.Time) *Manual {
	return &Manual{current: t}
}

func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set moves the clock to t. Moving backwards is allowed so tests can
// simulate clock rollback.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// Func adapts a plain function to the Clock interface.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

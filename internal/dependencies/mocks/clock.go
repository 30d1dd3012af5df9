package mocks

import (
	"sync"
	"time"

	"github.com/partypop/partypop/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Scheduled
// functions do not run on their own; Advance fires everything that has
// come due, in deadline order, on the caller's goroutine.
type MockClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []mockTimer
}

type mockTimer struct {
	at time.Time
	fn func()
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc records fn to fire once the clock has been advanced past d
func (c *MockClock) AfterFunc(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, mockTimer{at: c.now.Add(d), fn: fn})
}

// Advance moves the clock forward by the given duration and fires due timers
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	c.fireDue()
}

// Set sets the clock to the given time and fires due timers
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
	c.fireDue()
}

// PendingTimers returns the number of scheduled functions not yet fired
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// fireDue runs due timers one at a time outside the lock, earliest first,
// so a fired function can schedule follow-up timers without deadlocking.
func (c *MockClock) fireDue() {
	for {
		c.mu.Lock()
		due := -1
		for i, t := range c.timers {
			if t.at.After(c.now) {
				continue
			}
			if due == -1 || t.at.Before(c.timers[due].at) {
				due = i
			}
		}
		if due == -1 {
			c.mu.Unlock()
			return
		}
		fn := c.timers[due].fn
		c.timers = append(c.timers[:due], c.timers[due+1:]...)
		c.mu.Unlock()
		fn()
	}
}

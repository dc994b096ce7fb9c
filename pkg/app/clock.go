package app

import (
	"sync"
	"time"
)

// Clock reports elapsed seconds since it started
type Clock interface {
	Elapsed() float64
}

// wallClock measures monotonic time from its creation and is never reset
type wallClock struct {
	start time.Time
}

// NewClock starts a clock at the current time
func NewClock() Clock {
	return &wallClock{start: time.Now()}
}

func (c *wallClock) Elapsed() float64 {
	return time.Since(c.start).Seconds()
}

// ManualClock only moves when told to
type ManualClock struct {
	mu sync.Mutex
	t  float64
}

// NewManualClock creates a clock stopped at t
func NewManualClock(t float64) *ManualClock {
	return &ManualClock{t: t}
}

// Elapsed implements Clock
func (c *ManualClock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t
func (c *ManualClock) Set(t float64) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by dt seconds
func (c *ManualClock) Advance(dt float64) {
	c.mu.Lock()
	c.t += dt
	c.mu.Unlock()
}

// Package timeutil provides the clock abstraction behind every timer in
// the system: the persistence debounce, the local-change settle window,
// the scan-result auto-clear, and the door auto-relock.
//
// Production code uses SystemClock. Tests use FakeClock and advance time
// explicitly, which makes the timer interleavings of the board store and
// scan pipeline deterministic.
package timeutil

import (
	"sort"
	"sync"
	"time"
)

// Clock is the time source injected into components that schedule work.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time

	// AfterFunc schedules f to run after d. The returned Timer can cancel
	// the call before it fires.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable pending call scheduled via AfterFunc.
type Timer interface {
	// Stop cancels the timer. Reports whether the call was prevented from
	// firing.
	Stop() bool
}

// SystemClock is the real time.Now/time.AfterFunc clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc implements Clock. The callback runs on its own goroutine, as
// with time.AfterFunc; components that share state with their callbacks
// must serialize access themselves.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FakeClock is a manually advanced clock for tests.
//
// Callbacks run inline on the goroutine that calls Advance, in firing-time
// order, so a test observes exactly the single-threaded event interleaving
// the production design assumes.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

// NewFakeClock creates a fake clock starting at the given instant.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now implements Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements Clock.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.pending = append(c.pending, t)
	return t
}

// Stop implements Timer.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, firing every due timer in order.
// A callback may schedule further timers; those fire too if they fall
// within the advanced window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		t.f()
	}

	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

// nextDue pops the earliest unfired timer at or before target, advancing
// the clock to its firing time. Returns nil when none remain.
func (c *FakeClock) nextDue(target time.Time) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.pending[:0]
	for _, t := range c.pending {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	c.pending = live

	sort.SliceStable(c.pending, func(i, j int) bool {
		return c.pending[i].at.Before(c.pending[j].at)
	})

	for _, t := range c.pending {
		if !t.at.After(target) {
			t.fired = true
			if t.at.After(c.now) {
				c.now = t.at
			}
			return t
		}
	}
	return nil
}

// Package door is the actuator boundary: the core emits fire-and-forget
// unlock requests and never waits for an acknowledgement. The physical
// driver (serial relay, networked controller) is an external collaborator
// behind the Signaler interface.
package door

import (
	"log/slog"
	"sync"
	"time"

	"github.com/crescent-ops/lineup/internal/timeutil"
)

// State is the last known lock state. Without hardware feedback it only
// reflects the commands this process has issued.
type State string

const (
	StateUnknown  State = "unknown"
	StateLocked   State = "locked"
	StateUnlocked State = "unlocked"
)

// DefaultUnlockDuration is how long the door stays open per request.
const DefaultUnlockDuration = 5000 * time.Millisecond

// Request is the signal payload handed to the hardware collaborator.
type Request struct {
	Command   string        `json:"command"` // "unlock" or "lock"
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"durationMs,omitempty"`
}

// Signaler delivers a request to the hardware. Implementations must not
// block; errors are the collaborator's problem, not the core's.
type Signaler interface {
	Signal(Request)
}

// SlogSignaler logs each request. The default when no hardware is wired.
type SlogSignaler struct {
	Log *slog.Logger
}

// Signal implements Signaler.
func (s SlogSignaler) Signal(r Request) {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("door signal", "command", r.Command, "duration_ms", r.Duration.Milliseconds())
}

// Controller issues unlock/lock signals and keeps the auto-relock timer.
//
// Thread-safety: safe for concurrent use via internal mutex; the relock
// timer callback shares state with callers.
type Controller struct {
	signaler  Signaler
	clock     timeutil.Clock
	duration  time.Duration
	autoLock  bool
	mu        sync.Mutex
	state     State
	lastReq   *Request
	relockTmr timeutil.Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithUnlockDuration overrides the default unlock window.
func WithUnlockDuration(d time.Duration) Option {
	return func(c *Controller) { c.duration = d }
}

// WithoutAutoRelock disables the automatic relock timer; the hardware is
// expected to relock itself.
func WithoutAutoRelock() Option {
	return func(c *Controller) { c.autoLock = false }
}

// NewController creates a controller. A nil signaler defaults to
// SlogSignaler; a nil clock defaults to the system clock.
func NewController(signaler Signaler, clock timeutil.Clock, opts ...Option) *Controller {
	if signaler == nil {
		signaler = SlogSignaler{}
	}
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	c := &Controller{
		signaler: signaler,
		clock:    clock,
		duration: DefaultUnlockDuration,
		autoLock: true,
		state:    StateUnknown,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestUnlock emits an unlock signal for the configured duration.
// Implements the scan pipeline's Unlocker.
func (c *Controller) RequestUnlock() {
	c.Unlock(c.duration)
}

// Unlock emits an unlock signal for the given duration and, when
// auto-relock is on, schedules the matching lock signal.
func (c *Controller) Unlock(d time.Duration) {
	c.mu.Lock()
	if c.relockTmr != nil {
		c.relockTmr.Stop()
		c.relockTmr = nil
	}
	req := Request{Command: "unlock", Timestamp: c.clock.Now(), Duration: d}
	c.state = StateUnlocked
	c.lastReq = &req
	if c.autoLock {
		c.relockTmr = c.clock.AfterFunc(d, c.Lock)
	}
	c.mu.Unlock()

	c.signaler.Signal(req)
}

// Lock emits a lock signal and cancels any pending auto-relock.
func (c *Controller) Lock() {
	c.mu.Lock()
	if c.relockTmr != nil {
		c.relockTmr.Stop()
		c.relockTmr = nil
	}
	req := Request{Command: "lock", Timestamp: c.clock.Now()}
	c.state = StateLocked
	c.lastReq = &req
	c.mu.Unlock()

	c.signaler.Signal(req)
}

// State returns the last known lock state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastRequest returns the most recent signal, or nil.
func (c *Controller) LastRequest() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastReq == nil {
		return nil
	}
	r := *c.lastReq
	return &r
}

// Close cancels the pending auto-relock timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.relockTmr != nil {
		c.relockTmr.Stop()
		c.relockTmr = nil
	}
}

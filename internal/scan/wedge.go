package scan

import (
	"strings"
	"sync"
	"time"

	"github.com/crescent-ops/lineup/internal/timeutil"
)

// Keyboard-wedge scanners act like keyboards: they type the payload much
// faster than a human and finish with a terminator key. The heuristic
// below separates scanner bursts from human typing by inter-key gap.
const (
	// WedgeMaxGap is the longest inter-key gap still considered part of
	// one scanner burst. Slower input resets the buffer.
	WedgeMaxGap = 100 * time.Millisecond

	// WedgeMinLength is the shortest accepted payload. A bare terminator
	// press never fires a scan.
	WedgeMinLength = 6
)

// Wedge assembles keystroke bursts into badge payloads.
//
// Feed each printable key with Rune and the terminator with Terminate.
// When a terminated burst meets the minimum length, onScan fires with the
// trimmed payload. An idle timer also resets the buffer after twice the
// maximum gap, so a half-typed burst does not leak into the next scan.
type Wedge struct {
	clock  timeutil.Clock
	onScan func(string)

	mu       sync.Mutex
	buf      strings.Builder
	lastKey  time.Time
	resetTmr timeutil.Timer
}

// NewWedge creates a wedge that invokes onScan for each completed burst.
func NewWedge(clock timeutil.Clock, onScan func(string)) *Wedge {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &Wedge{clock: clock, onScan: onScan}
}

// Rune feeds one printable key.
func (w *Wedge) Rune(r rune) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	if !w.lastKey.IsZero() && now.Sub(w.lastKey) > WedgeMaxGap {
		// Human-cadence gap: this is typing, not a scanner burst.
		w.buf.Reset()
	}
	w.lastKey = now
	w.buf.WriteRune(r)

	if w.resetTmr != nil {
		w.resetTmr.Stop()
	}
	w.resetTmr = w.clock.AfterFunc(2*WedgeMaxGap, w.reset)
}

// Terminate feeds the terminator key (Enter). Fires onScan when the
// buffered burst meets the minimum length; always clears the buffer.
func (w *Wedge) Terminate() {
	w.mu.Lock()
	payload := strings.TrimSpace(w.buf.String())
	w.buf.Reset()
	if w.resetTmr != nil {
		w.resetTmr.Stop()
		w.resetTmr = nil
	}
	w.mu.Unlock()

	if len(payload) >= WedgeMinLength && w.onScan != nil {
		w.onScan(payload)
	}
}

// Buffered returns the current burst contents. Exposed for display only.
func (w *Wedge) Buffered() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Close cancels the idle reset timer.
func (w *Wedge) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.resetTmr != nil {
		w.resetTmr.Stop()
		w.resetTmr = nil
	}
}

func (w *Wedge) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Reset()
}

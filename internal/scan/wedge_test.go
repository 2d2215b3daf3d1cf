package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescent-ops/lineup/internal/timeutil"
)

func feedBurst(w *Wedge, clock *timeutil.FakeClock, s string, gap time.Duration) {
	for _, r := range s {
		w.Rune(r)
		clock.Advance(gap)
	}
}

func TestWedge_ScannerBurstFires(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC))
	var got []string
	w := NewWedge(clock, func(s string) { got = append(got, s) })
	defer w.Close()

	feedBurst(w, clock, "PLX-1000001-ABC", 5*time.Millisecond)
	w.Terminate()

	require.Len(t, got, 1)
	assert.Equal(t, "PLX-1000001-ABC", got[0])
}

func TestWedge_HumanGapResetsBuffer(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC))
	var got []string
	w := NewWedge(clock, func(s string) { got = append(got, s) })
	defer w.Close()

	// Slow human typing, then a clean scanner burst.
	feedBurst(w, clock, "junk", 300*time.Millisecond)
	feedBurst(w, clock, "1000001", 5*time.Millisecond)
	w.Terminate()

	require.Len(t, got, 1)
	assert.Equal(t, "1000001", got[0])
}

func TestWedge_ShortBurstDropped(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC))
	var got []string
	w := NewWedge(clock, func(s string) { got = append(got, s) })
	defer w.Close()

	feedBurst(w, clock, "12345", 5*time.Millisecond)
	w.Terminate()

	assert.Empty(t, got)
}

func TestWedge_BareTerminatorIsNoop(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC))
	var got []string
	w := NewWedge(clock, func(s string) { got = append(got, s) })
	defer w.Close()

	w.Terminate()
	assert.Empty(t, got)
}

func TestWedge_IdleTimerClearsBuffer(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC))
	w := NewWedge(clock, nil)
	defer w.Close()

	w.Rune('1')
	w.Rune('2')
	assert.Equal(t, "12", w.Buffered())

	clock.Advance(2*WedgeMaxGap + time.Millisecond)
	assert.Empty(t, w.Buffered())
}

func TestWedge_TerminateClearsBuffer(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC))
	w := NewWedge(clock, func(string) {})
	defer w.Close()

	feedBurst(w, clock, "1000001", 5*time.Millisecond)
	w.Terminate()
	assert.Empty(t, w.Buffered())
}

package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/crescent-ops/lineup/internal/board"
	"github.com/crescent-ops/lineup/internal/timeutil"
)

// Timer windows for the persistence path.
const (
	// DebounceWindow is the quiet window that coalesces bursty edits into
	// a single persisted write.
	DebounceWindow = 2000 * time.Millisecond

	// SettleWindow is how long the local-change flag is held after a
	// persist completes, so the remote echo of our own write cannot
	// clobber edits made in the interim.
	SettleWindow = 500 * time.Millisecond

	// StatusTTL is how long transient save-status text stays visible.
	StatusTTL = 3000 * time.Millisecond
)

// Save-status text shown to the operator.
const (
	statusSavedCloud   = "Saved to cloud"
	statusSavedLocally = "Saved locally"
	statusSaveFailed   = "Error saving"
)

// BoardConfig wires a BoardStore. Cache and Remote are both optional; a
// store with neither simply keeps the board in memory.
type BoardConfig struct {
	Cache  *Cache
	Remote Remote
	IDs    board.IDGenerator
	Clock  timeutil.Clock
	Logger *slog.Logger
}

// BoardStore holds the canonical board snapshot for the active date+shift
// and mediates between optimistic local edits, the two persistence tiers,
// and the remote subscription feed.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex. The design still assumes one logical thread of control - the
// mutex exists to serialize timer callbacks and the subscription feed
// with operator edits, not to support parallel writers.
type BoardStore struct {
	cache  *Cache
	remote Remote
	ids    board.IDGenerator
	clock  timeutil.Clock
	log    *slog.Logger

	mu          sync.Mutex
	snap        board.Snapshot
	localChange bool
	editGen     int // bumped by every mutation; guards the settle timer
	status      string
	saveTimer   timeutil.Timer
	settleTimer timeutil.Timer
	statusTimer timeutil.Timer
	unsubscribe func()
	subs        map[int]func()
	nextSub     int
}

// NewBoardStore creates a store with an empty board. Call Load to attach
// it to a date+shift.
func NewBoardStore(cfg BoardConfig) *BoardStore {
	if cfg.IDs == nil {
		cfg.IDs = board.UUIDv7Generator{}
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &BoardStore{
		cache:  cfg.Cache,
		remote: cfg.Remote,
		ids:    cfg.IDs,
		clock:  cfg.Clock,
		log:    cfg.Logger,
		subs:   make(map[int]func()),
	}
}

// Load attaches the store to a date+shift, superseding any current board.
//
// The shared store is tried first; on any failure or absence the local
// cache is used; with neither, the board starts empty. Pending timers for
// the superseded board are cancelled and a fresh remote subscription is
// established. Load never returns an error for a missing or unreachable
// tier - absence just means an empty board.
func (s *BoardStore) Load(ctx context.Context, date, shift string) {
	s.mu.Lock()
	s.cancelTimersLocked()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.localChange = false
	s.editGen++
	s.status = ""
	s.snap = board.Snapshot{Date: date, Shift: shift}
	s.mu.Unlock()

	loaded := s.fetch(ctx, date, shift)

	s.mu.Lock()
	if loaded != nil {
		loaded.Date = date
		loaded.Shift = shift
		s.snap = *loaded
	}
	if s.remote != nil {
		unsub, err := s.remote.Subscribe(staffingPath(date, shift), s.onRemoteUpdate)
		if err != nil {
			s.log.Warn("remote subscribe failed", "path", staffingPath(date, shift), "error", err)
		} else {
			s.unsubscribe = unsub
		}
	}
	s.mu.Unlock()

	s.notify()
}

// fetch reads remote-first with cache fallback.
func (s *BoardStore) fetch(ctx context.Context, date, shift string) *board.Snapshot {
	if s.remote != nil {
		raw, err := s.remote.Get(ctx, staffingPath(date, shift))
		if err != nil {
			s.log.Warn("remote load failed, falling back to cache", "error", err)
		} else if raw != nil {
			var snap board.Snapshot
			if err := json.Unmarshal(raw, &snap); err != nil {
				s.log.Warn("remote snapshot malformed, falling back to cache", "error", err)
			} else {
				return &snap
			}
		}
	}
	if s.cache != nil {
		snap, err := s.cache.GetSnapshot(ctx, date, shift)
		if err != nil {
			s.log.Warn("cache load failed", "error", err)
			return nil
		}
		return snap
	}
	return nil
}

// Snapshot returns a deep copy of the current board.
func (s *BoardStore) Snapshot() board.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// IDs returns the store's id generator, shared so edits made outside
// Mutate wrappers allocate from the same sequence in tests.
func (s *BoardStore) IDs() board.IDGenerator { return s.ids }

// Mutate applies a pure transform to the current snapshot and commits the
// result as a single transition. The transform receives a clone; returning
// an error leaves the board untouched.
//
// Every successful mutation marks the local-change flag and (re)arms the
// persistence debounce.
func (s *BoardStore) Mutate(transform func(board.Snapshot) (board.Snapshot, error)) error {
	s.mu.Lock()
	next, err := transform(s.snap.Clone())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next.Date = s.snap.Date
	next.Shift = s.snap.Shift
	next.LastUpdated = s.clock.Now()
	s.snap = next
	s.markDirtyLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// AddScan inserts a scanned associate into the waitlist, idempotent by
// employee number. Implements the scan pipeline's board dependency.
func (s *BoardStore) AddScan(name, employeeNumber string) (bool, error) {
	added := false
	err := s.Mutate(func(snap board.Snapshot) (board.Snapshot, error) {
		next, ok, err := board.InsertWaitlist(snap, name, false, employeeNumber, s.ids, s.clock.Now())
		added = ok
		return next, err
	})
	return added, err
}

// Move applies one drag operation through the reassignment engine.
func (s *BoardStore) Move(src, dst board.Ref) error {
	return s.Mutate(func(snap board.Snapshot) (board.Snapshot, error) {
		return board.Move(snap, src, dst, s.ids)
	})
}

// SetLocked freezes or unfreezes the board. This is the one mutation
// allowed while locked.
func (s *BoardStore) SetLocked(locked bool) {
	s.mu.Lock()
	s.snap = board.SetLocked(s.snap, locked)
	s.snap.LastUpdated = s.clock.Now()
	s.markDirtyLocked()
	s.mu.Unlock()

	s.notify()
}

// markDirtyLocked flags a local change and rearms the debounce timer.
// Caller holds s.mu.
func (s *BoardStore) markDirtyLocked() {
	s.localChange = true
	s.editGen++
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = s.clock.AfterFunc(DebounceWindow, func() {
		s.Flush(context.Background())
	})
}

// Flush persists the full snapshot to both tiers immediately and starts
// the settle window. Normally driven by the debounce timer; exposed so
// callers can force a write before teardown.
//
// Flush never fails the caller: tier errors are absorbed into the
// transient save status.
func (s *BoardStore) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	snap := s.snap.Clone()
	gen := s.editGen
	s.mu.Unlock()

	status := statusSavedLocally
	if s.cache != nil {
		if err := s.cache.PutSnapshot(ctx, snap); err != nil {
			// Local tier failure is swallowed; the in-memory board stays
			// authoritative and the failure shows only as status text.
			s.log.Error("cache write failed", "error", err)
			status = statusSaveFailed
		}
	}
	if s.remote != nil {
		if err := s.remote.Set(ctx, staffingPath(snap.Date, snap.Shift), snap); err != nil {
			s.log.Warn("shared store write failed, cache remains authoritative", "error", err)
			status = statusSaveFailed
		} else {
			status = statusSavedCloud
		}
	}

	s.mu.Lock()
	s.status = status
	if s.statusTimer != nil {
		s.statusTimer.Stop()
	}
	s.statusTimer = s.clock.AfterFunc(StatusTTL, func() {
		s.mu.Lock()
		s.status = ""
		s.mu.Unlock()
	})

	// Hold the local-change flag through the settle window so the echo of
	// this write cannot clobber anything. A mutation arriving before the
	// window elapses bumps editGen and keeps the flag set.
	if s.settleTimer != nil {
		s.settleTimer.Stop()
	}
	s.settleTimer = s.clock.AfterFunc(SettleWindow, func() {
		s.mu.Lock()
		if s.editGen == gen {
			s.localChange = false
		}
		s.mu.Unlock()
	})
	s.mu.Unlock()

	s.notify()
}

// onRemoteUpdate is the subscription callback: a snapshot written by some
// writer (possibly us) landed on the shared path.
func (s *BoardStore) onRemoteUpdate(raw json.RawMessage) {
	var snap board.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn("remote update malformed", "error", err)
		return
	}
	s.ApplyRemote(snap)
}

// ApplyRemote merges a remote snapshot into local state, unless the
// local-change flag is held. This is last-writer-wins with a lockout
// window: while local edits are in flight or settling, remote updates are
// dropped entirely.
func (s *BoardStore) ApplyRemote(snap board.Snapshot) {
	s.mu.Lock()
	if s.localChange {
		s.mu.Unlock()
		s.log.Debug("remote update dropped during local-change window")
		return
	}
	if snap.Date != s.snap.Date || snap.Shift != s.snap.Shift {
		s.mu.Unlock()
		return
	}
	s.snap.Lines = snap.Lines
	s.snap.Waitlist = snap.Waitlist
	s.snap.Locked = snap.Locked
	s.snap.LastUpdated = snap.LastUpdated
	s.mu.Unlock()

	s.notify()
}

// SaveStatus returns the transient save-status text, empty when expired.
func (s *BoardStore) SaveStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Locked reports whether the board is frozen.
func (s *BoardStore) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Locked
}

// Subscribe registers fn to run after every committed change (local or
// merged remote). Returns an unsubscribe func.
func (s *BoardStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close cancels all pending timers and the remote subscription. Pending
// edits are NOT flushed implicitly; call Flush first if they matter.
func (s *BoardStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimersLocked()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// cancelTimersLocked stops every pending timer. Caller holds s.mu.
func (s *BoardStore) cancelTimersLocked() {
	for _, t := range []timeutil.Timer{s.saveTimer, s.settleTimer, s.statusTimer} {
		if t != nil {
			t.Stop()
		}
	}
	s.saveTimer, s.settleTimer, s.statusTimer = nil, nil, nil
}

// notify runs subscriber callbacks outside the lock.
func (s *BoardStore) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

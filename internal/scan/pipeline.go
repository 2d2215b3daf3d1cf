package scan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/crescent-ops/lineup/internal/assign"
	"github.com/crescent-ops/lineup/internal/board"
	"github.com/crescent-ops/lineup/internal/roster"
	"github.com/crescent-ops/lineup/internal/timeutil"
)

// Status classifies a scan outcome.
type Status string

const (
	// StatusInvalid: the payload did not decode. No roster lookup, no
	// board mutation, not audited.
	StatusInvalid Status = "invalid"
	// StatusUnknown: decoded, but the employee number is not on the
	// roster. Audited; the associate is told to see a supervisor.
	StatusUnknown Status = "unknown"
	// StatusDuplicate: the associate is already on the board.
	StatusDuplicate Status = "duplicate"
	// StatusAdded: the associate was inserted into the waitlist. Audited.
	StatusAdded Status = "added"
)

// DisplayTTL is how long a result stays on screen before auto-clearing,
// unless a newer scan supersedes it first.
const DisplayTTL = 2000 * time.Millisecond

// Assignment is the line resolved for a scanned associate: the daily plan
// when one exists, otherwise live line membership.
type Assignment struct {
	Line        string   `json:"line"`
	Leads       []string `json:"leads"`
	Position    string   `json:"position,omitempty"`
	Preassigned bool     `json:"preassigned,omitempty"`
}

// Result is the ephemeral outcome of one scan. Retained only in the
// bounded history and, for audited outcomes, in the scan log.
type Result struct {
	Status          Status            `json:"status"`
	Success         bool              `json:"success"`
	EmployeeNumber  string            `json:"employeeNumber,omitempty"`
	Associate       *roster.Associate `json:"associate,omitempty"`
	Message         string            `json:"message"`
	Location        string            `json:"location,omitempty"`
	AddedToWaitlist bool              `json:"addedToWaitlist,omitempty"`
	Assignment      *Assignment       `json:"assignment,omitempty"`
	Raw             string            `json:"rawData"`
	Timestamp       time.Time         `json:"timestamp"`
}

// AuditPerson is the minimized associate stored in audit log entries.
type AuditPerson struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuditRecord is the persisted form of a Result, with the associate
// reduced to name-only for data minimization.
type AuditRecord struct {
	Status          Status       `json:"status"`
	Success         bool         `json:"success"`
	EmployeeNumber  string       `json:"employeeNumber,omitempty"`
	Associate       *AuditPerson `json:"associate,omitempty"`
	Message         string       `json:"message"`
	Location        string       `json:"location,omitempty"`
	AddedToWaitlist bool         `json:"addedToWaitlist,omitempty"`
	Assignment      *Assignment  `json:"assignment,omitempty"`
	Raw             string       `json:"rawData"`
	Timestamp       time.Time    `json:"timestamp"`
}

// AuditRecord returns the minimized form of the result.
func (r Result) AuditRecord() AuditRecord {
	rec := AuditRecord{
		Status:          r.Status,
		Success:         r.Success,
		EmployeeNumber:  r.EmployeeNumber,
		Message:         r.Message,
		Location:        r.Location,
		AddedToWaitlist: r.AddedToWaitlist,
		Assignment:      r.Assignment,
		Raw:             r.Raw,
		Timestamp:       r.Timestamp,
	}
	if r.Associate != nil {
		rec.Associate = &AuditPerson{FirstName: r.Associate.FirstName, LastName: r.Associate.LastName}
	}
	return rec
}

// RosterLookup resolves employee numbers against the roster collaborator.
type RosterLookup interface {
	Lookup(employeeNumber string) (roster.Associate, bool)
}

// Board is the slice of the board store the pipeline needs: a consistent
// read snapshot and the idempotent waitlist insert. The pipeline never
// writes line positions.
type Board interface {
	Snapshot() board.Snapshot
	AddScan(name, employeeNumber string) (added bool, err error)
}

// AssignmentLookup resolves daily assignments. Implemented by assign.Sheet.
type AssignmentLookup interface {
	For(employeeNumber string) (assign.Assignment, bool)
}

// AuditSink records audited scan results. Failures are swallowed by the
// pipeline and only logged.
type AuditSink interface {
	Record(ctx context.Context, rec AuditRecord) error
}

// Unlocker receives the fire-and-forget door unlock request when a
// scanned associate has a resolved assignment.
type Unlocker interface {
	RequestUnlock()
}

// Config wires a Pipeline. Roster and Board are required; every other
// collaborator is optional and defaults to a no-op.
type Config struct {
	Roster      RosterLookup
	Board       Board
	Assignments AssignmentLookup
	Audio       Player
	Door        Unlocker
	Audit       AuditSink
	Clock       timeutil.Clock
	Logger      *slog.Logger
	Kiosk       bool
}

// Pipeline orchestrates decode -> roster lookup -> presence check ->
// classification -> board mutation -> side effects -> history.
//
// Thread-safety: Process and the accessors are safe for concurrent use via
// internal mutex, but the design assumes one logical caller (scan events
// arrive one at a time); the mutex exists to serialize the auto-clear
// timer callback with scan processing.
type Pipeline struct {
	roster      RosterLookup
	boardAPI    Board
	assignments AssignmentLookup
	audio       Player
	door        Unlocker
	audit       AuditSink
	clock       timeutil.Clock
	log         *slog.Logger
	history     *History

	mu         sync.Mutex
	kiosk      bool
	processing bool
	current    *Result
	clearTimer timeutil.Timer
	clearGen   int
}

// NewPipeline creates a pipeline from the given configuration.
func NewPipeline(cfg Config) *Pipeline {
	if cfg.Audio == nil {
		cfg.Audio = NopPlayer{}
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		roster:      cfg.Roster,
		boardAPI:    cfg.Board,
		assignments: cfg.Assignments,
		audio:       cfg.Audio,
		door:        cfg.Door,
		audit:       cfg.Audit,
		clock:       cfg.Clock,
		log:         cfg.Logger,
		history:     NewHistory(),
		kiosk:       cfg.Kiosk,
	}
}

// SetKiosk switches the richer kiosk display context on or off.
func (p *Pipeline) SetKiosk(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kiosk = on
	p.current = nil
}

// Current returns the transient display result, or nil once it has
// auto-cleared.
func (p *Pipeline) Current() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	r := *p.current
	return &r
}

// History returns the retained results, newest first.
func (p *Pipeline) History() []Result {
	return p.history.All()
}

// ClearResult drops the transient display result immediately.
func (p *Pipeline) ClearResult() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelClearLocked()
	p.current = nil
}

// Close cancels the pending auto-clear timer. Must be called on teardown
// so a stale timer cannot fire into a superseded session.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelClearLocked()
}

// Process runs one badge payload through the pipeline.
//
// Returns ok=false when the scan was dropped because a previous scan is
// still being processed (drop-not-queue policy).
func (p *Pipeline) Process(ctx context.Context, raw string) (Result, bool) {
	p.mu.Lock()
	if p.processing {
		p.mu.Unlock()
		p.log.Debug("scan dropped while processing", "raw_len", len(raw))
		return Result{}, false
	}
	p.processing = true
	p.current = nil
	p.cancelClearLocked()
	kiosk := p.kiosk
	p.mu.Unlock()

	result := p.classify(ctx, raw, kiosk)

	p.mu.Lock()
	p.current = &result
	p.history.Push(result)
	p.armClearLocked()
	p.processing = false
	p.mu.Unlock()

	p.audio.Play(cueFor(result.Status))
	return result, true
}

// classify performs decode, roster lookup, presence check, and - for new
// arrivals - the waitlist insert and assignment resolution.
func (p *Pipeline) classify(ctx context.Context, raw string, kiosk bool) Result {
	now := p.clock.Now()

	employeeNumber, ok := DecodeBadge(raw)
	if !ok {
		return Result{
			Status:    StatusInvalid,
			Message:   "Invalid badge format",
			Raw:       raw,
			Timestamp: now,
		}
	}

	associate, known := p.roster.Lookup(employeeNumber)
	if !known {
		result := Result{
			Status:         StatusUnknown,
			EmployeeNumber: employeeNumber,
			Message:        "Welcome to Crescent! Please see the SPM for assistance.",
			Raw:            raw,
			Timestamp:      now,
		}
		p.recordAudit(ctx, result)
		return result
	}

	snap := p.boardAPI.Snapshot()
	presence := board.Find(snap, employeeNumber)
	if presence.Present {
		return p.duplicateResult(associate, presence, snap, raw, now, kiosk)
	}

	return p.addResult(ctx, associate, snap, raw, now)
}

func (p *Pipeline) duplicateResult(a roster.Associate, presence board.Presence, snap board.Snapshot, raw string, now time.Time, kiosk bool) Result {
	msg := fmt.Sprintf("%s (%s) - Welcome back!", a.FullName(), a.EmployeeNumber)
	if presence.OnWaitlist {
		msg += "\n\nYou are on the waitlist. Please wait for assignment."
	} else {
		msg += fmt.Sprintf("\n\nYou are assigned to %s.", presence.Location)
	}

	result := Result{
		Status:         StatusDuplicate,
		Success:        true,
		EmployeeNumber: a.EmployeeNumber,
		Associate:      &a,
		Message:        msg,
		Location:       presence.Location,
		Raw:            raw,
		Timestamp:      now,
	}

	// Kiosk displays are richer: attach the resolved assignment (daily plan
	// first, live line membership as fallback) without re-inserting anywhere.
	if kiosk {
		if assignment := p.resolveAssignment(a.EmployeeNumber, snap); assignment != nil {
			result.Assignment = assignment
			result.Message = fmt.Sprintf("%s (%s) - Welcome back!\n\nAssigned to: Line %s\nLead(s): %s",
				a.FullName(), a.EmployeeNumber, assignment.Line, strings.Join(assignment.Leads, ", "))
		}
	}
	return result
}

func (p *Pipeline) addResult(ctx context.Context, a roster.Associate, snap board.Snapshot, raw string, now time.Time) Result {
	if _, err := p.boardAPI.AddScan(a.FullName(), a.EmployeeNumber); err != nil {
		// Locked board or a store failure. The scan resolves to a displayed
		// status; the system stays ready for the next badge.
		p.log.Warn("waitlist insert rejected", "employee", a.EmployeeNumber, "error", err)
		return Result{
			Status:         StatusInvalid,
			EmployeeNumber: a.EmployeeNumber,
			Message:        "Scanning is unavailable right now. Please see the SPM.",
			Raw:            raw,
			Timestamp:      now,
		}
	}

	assignment := p.resolveAssignment(a.EmployeeNumber, snap)

	msg := fmt.Sprintf("%s (%s) - Welcome back!", a.FullName(), a.EmployeeNumber)
	if assignment != nil {
		msg += fmt.Sprintf("\n\nAssigned to: Line %s", assignment.Line)
		if len(assignment.Leads) > 0 {
			msg += fmt.Sprintf("\nLead(s): %s", strings.Join(assignment.Leads, ", "))
		}
		if assignment.Preassigned {
			msg += "\n\n[Pre-assigned for today's shift]"
		}
	} else {
		msg += "\n\nAdded to waitlist. Please wait for assignment."
	}

	result := Result{
		Status:          StatusAdded,
		Success:         true,
		EmployeeNumber:  a.EmployeeNumber,
		Associate:       &a,
		Message:         msg,
		AddedToWaitlist: true,
		Assignment:      assignment,
		Raw:             raw,
		Timestamp:       now,
	}
	p.recordAudit(ctx, result)

	if assignment != nil && p.door != nil {
		p.door.RequestUnlock()
	}
	return result
}

// resolveAssignment returns the daily assignment when one exists, else the
// associate's live line membership, else nil.
func (p *Pipeline) resolveAssignment(employeeNumber string, snap board.Snapshot) *Assignment {
	if p.assignments != nil {
		if a, ok := p.assignments.For(employeeNumber); ok {
			return &Assignment{
				Line:        a.Line,
				Leads:       append([]string(nil), a.Leads...),
				Position:    a.Position,
				Preassigned: true,
			}
		}
	}
	for _, l := range snap.Lines {
		for _, pos := range l.Positions {
			if pos.EmployeeNumber == employeeNumber {
				return &Assignment{
					Line:  l.Letter,
					Leads: append([]string(nil), l.Leads...),
				}
			}
		}
	}
	return nil
}

func (p *Pipeline) recordAudit(ctx context.Context, r Result) {
	if p.audit == nil {
		return
	}
	if err := p.audit.Record(ctx, r.AuditRecord()); err != nil {
		p.log.Warn("audit write failed", "status", string(r.Status), "error", err)
	}
}

// armClearLocked (re)arms the auto-clear timer for the current result.
// Caller holds p.mu.
func (p *Pipeline) armClearLocked() {
	p.cancelClearLocked()
	p.clearGen++
	gen := p.clearGen
	p.clearTimer = p.clock.AfterFunc(DisplayTTL, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		// A newer result rearmed the timer; this firing is stale.
		if gen == p.clearGen {
			p.current = nil
		}
	})
}

// cancelClearLocked stops any pending auto-clear. Caller holds p.mu.
func (p *Pipeline) cancelClearLocked() {
	if p.clearTimer != nil {
		p.clearTimer.Stop()
		p.clearTimer = nil
	}
}

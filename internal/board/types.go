package board

import (
	"strings"
	"time"
)

// Position is one assignable seat within a line.
//
// A position with an empty (or all-whitespace) name is vacant. Positions
// that were filled by a badge scan carry the employee number of their
// occupant; manually typed names have no employee number.
type Position struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IsNew          bool   `json:"isNew"`
	EmployeeNumber string `json:"employeeNumber,omitempty"`
}

// Vacant reports whether the position has no occupant.
func (p Position) Vacant() bool {
	return strings.TrimSpace(p.Name) == ""
}

// Line is a named group of numbered assignable slots for a shift.
//
// Needed is the slot capacity; len(Positions) == Needed except transiently
// during a resize. A cut line's positions are forced vacant and reject
// edits until the line is restored.
type Line struct {
	ID        string     `json:"id"`
	Letter    string     `json:"letter"`
	Leads     []string   `json:"leads"`
	Needed    int        `json:"needed"`
	IsCut     bool       `json:"isCut"`
	Positions []Position `json:"positions"`
}

// Filled returns the number of occupied positions.
func (l Line) Filled() int {
	n := 0
	for _, p := range l.Positions {
		if !p.Vacant() {
			n++
		}
	}
	return n
}

// WaitlistEntry is an associate who is present but not yet assigned a slot.
type WaitlistEntry struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	IsNew          bool      `json:"isNew"`
	EmployeeNumber string    `json:"employeeNumber,omitempty"`
	AddedAt        time.Time `json:"addedAt,omitzero"`
}

// Vacant reports whether the entry is an empty placeholder row.
func (w WaitlistEntry) Vacant() bool {
	return strings.TrimSpace(w.Name) == ""
}

// Snapshot is the complete staffing board for one date and shift.
//
// This is the persisted form: the same shape is written to the local cache
// and the shared store, and received back on the remote subscription feed.
type Snapshot struct {
	Date        string          `json:"date"`
	Shift       string          `json:"shift"`
	Lines       []Line          `json:"lines"`
	Waitlist    []WaitlistEntry `json:"waitlist"`
	Locked      bool            `json:"locked"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Clone returns a deep copy of the snapshot. Operations work on clones so
// the committed snapshot is never aliased by in-flight edits.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Lines = make([]Line, len(s.Lines))
	for i, l := range s.Lines {
		cl := l
		cl.Leads = append([]string(nil), l.Leads...)
		cl.Positions = append([]Position(nil), l.Positions...)
		out.Lines[i] = cl
	}
	out.Waitlist = append([]WaitlistEntry(nil), s.Waitlist...)
	return out
}

// line returns a pointer to the line with the given id, or nil.
func (s *Snapshot) line(id string) *Line {
	for i := range s.Lines {
		if s.Lines[i].ID == id {
			return &s.Lines[i]
		}
	}
	return nil
}

// position returns a pointer to the position with the given id within a
// line, or nil.
func (l *Line) position(id string) *Position {
	for i := range l.Positions {
		if l.Positions[i].ID == id {
			return &l.Positions[i]
		}
	}
	return nil
}

// Holders returns every location each employee number currently occupies.
// Used by tests to check the uniqueness invariant; not part of the hot path.
func Holders(s Snapshot) map[string][]string {
	holders := make(map[string][]string)
	for _, w := range s.Waitlist {
		if w.EmployeeNumber != "" {
			holders[w.EmployeeNumber] = append(holders[w.EmployeeNumber], "waitlist")
		}
	}
	for _, l := range s.Lines {
		for _, p := range l.Positions {
			if p.EmployeeNumber != "" {
				holders[p.EmployeeNumber] = append(holders[p.EmployeeNumber], "Line "+l.Letter)
			}
		}
	}
	return holders
}

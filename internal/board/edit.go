package board

import "time"

// InsertWaitlist appends a waitlist entry for a scanned-in associate.
//
// The insert is idempotent by employee number: if an entry with the same
// non-empty employee number already exists, the snapshot is returned
// unchanged with added=false. A concurrent duplicate insert therefore
// collapses to a no-op instead of a second entry.
func InsertWaitlist(s Snapshot, name string, isNew bool, employeeNumber string, gen IDGenerator, now time.Time) (out Snapshot, added bool, err error) {
	if s.Locked {
		return s, false, ErrLocked
	}
	if employeeNumber != "" {
		for _, w := range s.Waitlist {
			if w.EmployeeNumber == employeeNumber {
				return s, false, nil
			}
		}
	}

	out = s.Clone()
	out.Waitlist = append(out.Waitlist, WaitlistEntry{
		ID:             gen.NewID(),
		Name:           name,
		IsNew:          isNew,
		EmployeeNumber: employeeNumber,
		AddedAt:        now,
	})
	return out, true, nil
}

// AddWaitlistRow appends an empty manual row for the operator to fill in.
func AddWaitlistRow(s Snapshot, gen IDGenerator) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	out.Waitlist = append(out.Waitlist, WaitlistEntry{ID: gen.NewID()})
	return out, nil
}

// QuickAddWaitlist appends one entry per name, in order.
func QuickAddWaitlist(s Snapshot, names []string, gen IDGenerator) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	for _, name := range names {
		out.Waitlist = append(out.Waitlist, WaitlistEntry{ID: gen.NewID(), Name: name})
	}
	return out, nil
}

// UpdateWaitlistEntry rewrites the name/isNew of one entry. Blanking the
// name also drops the employee number so the associate no longer counts as
// present.
func UpdateWaitlistEntry(s Snapshot, entryID, name string, isNew bool) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	for i := range out.Waitlist {
		if out.Waitlist[i].ID == entryID {
			out.Waitlist[i].Name = name
			out.Waitlist[i].IsNew = isNew
			if (WaitlistEntry{Name: name}).Vacant() {
				out.Waitlist[i].EmployeeNumber = ""
			}
			return out, nil
		}
	}
	return s, ErrNoSuchRef
}

// RemoveWaitlistEntry deletes one entry outright.
func RemoveWaitlistEntry(s Snapshot, entryID string) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	for i := range out.Waitlist {
		if out.Waitlist[i].ID == entryID {
			out.Waitlist = append(out.Waitlist[:i], out.Waitlist[i+1:]...)
			return out, nil
		}
	}
	return s, ErrNoSuchRef
}

// AddLine appends a new line with the given capacity of vacant positions.
func AddLine(s Snapshot, letter string, leads []string, needed int, gen IDGenerator) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	line := Line{
		ID:     gen.NewID(),
		Letter: letter,
		Leads:  append([]string(nil), leads...),
		Needed: needed,
	}
	for i := 0; i < needed; i++ {
		line.Positions = append(line.Positions, Position{ID: gen.NewID()})
	}
	out.Lines = append(out.Lines, line)
	return out, nil
}

// RemoveLine deletes a line and all of its positions.
func RemoveLine(s Snapshot, lineID string) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	for i := range out.Lines {
		if out.Lines[i].ID == lineID {
			out.Lines = append(out.Lines[:i], out.Lines[i+1:]...)
			return out, nil
		}
	}
	return s, ErrNoSuchLine
}

// LineUpdate carries the fields of a line edit. Nil fields are untouched.
type LineUpdate struct {
	Letter *string
	Leads  *[]string
	Needed *int
}

// UpdateLine edits a line's letter, leads, or capacity.
//
// A capacity change resizes the position list from the tail: growing
// appends vacant positions, shrinking truncates the highest indexes even
// when they are occupied. The tail truncation silently discards a filled
// slot's assignment; this mirrors the observed product behavior and is
// flagged as a pending policy decision rather than fixed here.
func UpdateLine(s Snapshot, lineID string, upd LineUpdate, gen IDGenerator) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	line := out.line(lineID)
	if line == nil {
		return s, ErrNoSuchLine
	}

	if upd.Letter != nil {
		line.Letter = *upd.Letter
	}
	if upd.Leads != nil {
		line.Leads = append([]string(nil), (*upd.Leads)...)
	}
	if upd.Needed != nil {
		needed := *upd.Needed
		if needed < 0 {
			needed = 0
		}
		line.Needed = needed
		for len(line.Positions) < needed {
			line.Positions = append(line.Positions, Position{ID: gen.NewID()})
		}
		if len(line.Positions) > needed {
			line.Positions = line.Positions[:needed]
		}
	}
	return out, nil
}

// UpdatePosition rewrites the name/isNew of one slot. Cut lines are
// read-only. Blanking the name also drops the employee number.
func UpdatePosition(s Snapshot, lineID, positionID, name string, isNew bool) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	line := out.line(lineID)
	if line == nil {
		return s, ErrNoSuchLine
	}
	if line.IsCut {
		return s, ErrCutLine
	}
	pos := line.position(positionID)
	if pos == nil {
		return s, ErrNoSuchRef
	}
	pos.Name = name
	pos.IsNew = isNew
	if (Position{Name: name}).Vacant() {
		pos.EmployeeNumber = ""
	}
	return out, nil
}

// ToggleCut flips a line between active and cut.
//
// Cutting displaces every occupant into a new waitlist entry (employee
// numbers travel with them, preserving the uniqueness invariant) and
// forces all positions vacant. Restoring a cut line leaves its positions
// empty; occupants must be reassigned from the waitlist.
func ToggleCut(s Snapshot, lineID string, gen IDGenerator) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}
	out := s.Clone()
	line := out.line(lineID)
	if line == nil {
		return s, ErrNoSuchLine
	}

	if line.IsCut {
		line.IsCut = false
		return out, nil
	}

	line.IsCut = true
	for i := range line.Positions {
		p := &line.Positions[i]
		if !p.Vacant() {
			out.Waitlist = append(out.Waitlist, WaitlistEntry{
				ID:             gen.NewID(),
				Name:           p.Name,
				IsNew:          p.IsNew,
				EmployeeNumber: p.EmployeeNumber,
			})
		}
		*p = Position{ID: p.ID}
	}
	return out, nil
}

// SetLocked freezes or unfreezes the board. Unlike every other operation
// this one is allowed on a locked board - it is the only way back out.
func SetLocked(s Snapshot, locked bool) Snapshot {
	out := s.Clone()
	out.Locked = locked
	return out
}

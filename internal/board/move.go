package board

// RefKind identifies which collection a Ref points into.
type RefKind int

const (
	// RefWaitlist points at a waitlist entry (or, as a move target with an
	// empty EntryID, at the waitlist itself).
	RefWaitlist RefKind = iota + 1
	// RefPosition points at one slot within a line.
	RefPosition
)

// Ref identifies one endpoint of a move: a waitlist entry or a line
// position. Refs are plain values so drag gestures, CLI arguments, and
// tests can all express the same command.
type Ref struct {
	Kind RefKind

	// EntryID identifies a waitlist entry. Empty for the waitlist itself
	// when used as a move target.
	EntryID string

	// LineID and PositionID identify a line slot.
	LineID     string
	PositionID string
}

// WaitlistRef returns a Ref for a specific waitlist entry.
func WaitlistRef(entryID string) Ref {
	return Ref{Kind: RefWaitlist, EntryID: entryID}
}

// WaitlistTarget returns a Ref for the waitlist as a drop target.
func WaitlistTarget() Ref {
	return Ref{Kind: RefWaitlist}
}

// PositionRef returns a Ref for a line position.
func PositionRef(lineID, positionID string) Ref {
	return Ref{Kind: RefPosition, LineID: lineID, PositionID: positionID}
}

// Move applies one drag operation as a single atomic transition and
// returns the resulting snapshot.
//
// Rules:
//   - waitlist entry -> position: contents (name, isNew, employeeNumber)
//     move into the slot. A prior occupant is displaced into a fresh
//     waitlist entry, never discarded; a vacant target just consumes the
//     source entry.
//   - position -> waitlist: the occupant becomes a new waitlist entry and
//     the slot is vacated.
//   - position -> position: full content swap, regardless of line.
//   - Either endpoint inside a cut line: ErrCutLine.
//   - Vacant source: ErrVacantSource.
//   - waitlist -> waitlist: ErrUnsupportedMove (no reordering semantics).
//
// All reads come from the input snapshot; on any error the input is
// returned unchanged.
func Move(s Snapshot, src, dst Ref, gen IDGenerator) (Snapshot, error) {
	if s.Locked {
		return s, ErrLocked
	}

	if err := checkCut(s, src); err != nil {
		return s, err
	}
	if err := checkCut(s, dst); err != nil {
		return s, err
	}

	switch {
	case src.Kind == RefWaitlist && dst.Kind == RefPosition:
		return moveWaitlistToPosition(s, src, dst, gen)
	case src.Kind == RefPosition && dst.Kind == RefWaitlist:
		return movePositionToWaitlist(s, src, gen)
	case src.Kind == RefPosition && dst.Kind == RefPosition:
		return swapPositions(s, src, dst)
	default:
		return s, ErrUnsupportedMove
	}
}

func checkCut(s Snapshot, r Ref) error {
	if r.Kind != RefPosition {
		return nil
	}
	for _, l := range s.Lines {
		if l.ID == r.LineID {
			if l.IsCut {
				return ErrCutLine
			}
			return nil
		}
	}
	return ErrNoSuchRef
}

func moveWaitlistToPosition(s Snapshot, src, dst Ref, gen IDGenerator) (Snapshot, error) {
	entryIdx := -1
	for i, w := range s.Waitlist {
		if w.ID == src.EntryID {
			entryIdx = i
			break
		}
	}
	if entryIdx < 0 {
		return s, ErrNoSuchRef
	}
	entry := s.Waitlist[entryIdx]
	if entry.Vacant() {
		return s, ErrVacantSource
	}

	out := s.Clone()
	line := out.line(dst.LineID)
	if line == nil {
		return s, ErrNoSuchRef
	}
	pos := line.position(dst.PositionID)
	if pos == nil {
		return s, ErrNoSuchRef
	}

	// Remove the source entry first, then displace any prior occupant into
	// a fresh entry. Both happen inside the same transition, so no
	// intermediate state ever holds an employee number twice.
	out.Waitlist = append(out.Waitlist[:entryIdx], out.Waitlist[entryIdx+1:]...)
	if !pos.Vacant() {
		out.Waitlist = append(out.Waitlist, WaitlistEntry{
			ID:             gen.NewID(),
			Name:           pos.Name,
			IsNew:          pos.IsNew,
			EmployeeNumber: pos.EmployeeNumber,
		})
	}

	pos.Name = entry.Name
	pos.IsNew = entry.IsNew
	pos.EmployeeNumber = entry.EmployeeNumber
	return out, nil
}

func movePositionToWaitlist(s Snapshot, src Ref, gen IDGenerator) (Snapshot, error) {
	out := s.Clone()
	line := out.line(src.LineID)
	if line == nil {
		return s, ErrNoSuchRef
	}
	pos := line.position(src.PositionID)
	if pos == nil {
		return s, ErrNoSuchRef
	}
	if pos.Vacant() {
		return s, ErrVacantSource
	}

	out.Waitlist = append(out.Waitlist, WaitlistEntry{
		ID:             gen.NewID(),
		Name:           pos.Name,
		IsNew:          pos.IsNew,
		EmployeeNumber: pos.EmployeeNumber,
	})
	pos.Name = ""
	pos.IsNew = false
	pos.EmployeeNumber = ""
	return out, nil
}

func swapPositions(s Snapshot, src, dst Ref) (Snapshot, error) {
	out := s.Clone()
	srcLine := out.line(src.LineID)
	dstLine := out.line(dst.LineID)
	if srcLine == nil || dstLine == nil {
		return s, ErrNoSuchRef
	}
	srcPos := srcLine.position(src.PositionID)
	dstPos := dstLine.position(dst.PositionID)
	if srcPos == nil || dstPos == nil {
		return s, ErrNoSuchRef
	}
	if srcPos.Vacant() {
		return s, ErrVacantSource
	}

	srcPos.Name, dstPos.Name = dstPos.Name, srcPos.Name
	srcPos.IsNew, dstPos.IsNew = dstPos.IsNew, srcPos.IsNew
	srcPos.EmployeeNumber, dstPos.EmployeeNumber = dstPos.EmployeeNumber, srcPos.EmployeeNumber
	return out, nil
}

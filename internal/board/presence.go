package board

// Presence reports whether and where an employee number currently exists
// on the board.
type Presence struct {
	Present bool

	// Location is "waitlist" or "Line <letter>". Empty when not present.
	Location string

	// OnWaitlist distinguishes the waitlist branch without string matching.
	OnWaitlist bool

	// EntryID is set when the match is a waitlist entry.
	EntryID string

	// LineID/PositionID/PositionName are set when the match is a line slot.
	LineID       string
	PositionID   string
	PositionName string
}

// Find scans the board for an employee number.
//
// Order is fixed and deterministic: the waitlist is checked before any
// line, lines in board order, positions in index order, first match wins.
// The ordering decides which message branch a duplicate scan receives
// ("you are on the waitlist" vs "you are assigned to Line X"), so it must
// not change.
func Find(s Snapshot, employeeNumber string) Presence {
	if employeeNumber == "" {
		return Presence{}
	}

	for _, w := range s.Waitlist {
		if w.EmployeeNumber == employeeNumber {
			return Presence{
				Present:    true,
				Location:   "waitlist",
				OnWaitlist: true,
				EntryID:    w.ID,
			}
		}
	}

	for _, l := range s.Lines {
		for _, p := range l.Positions {
			if p.EmployeeNumber == employeeNumber {
				return Presence{
					Present:      true,
					Location:     "Line " + l.Letter,
					LineID:       l.ID,
					PositionID:   p.ID,
					PositionName: p.Name,
				}
			}
		}
	}

	return Presence{}
}

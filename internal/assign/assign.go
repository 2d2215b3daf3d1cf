// Package assign manages daily line assignments: the pre-computed
// associate-to-line plan for a specific date and shift, independent of
// live slot occupancy on the staffing board.
package assign

import (
	"errors"
	"fmt"
	"time"
)

// Assignment is one associate's planned line for the shift.
type Assignment struct {
	EmployeeNumber string    `json:"employeeNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Line           string    `json:"line"`
	Leads          []string  `json:"leads"`
	Position       string    `json:"position,omitempty"`
	AssignedAt     time.Time `json:"assignedAt,omitzero"`
	ReassignedAt   time.Time `json:"reassignedAt,omitzero"`
}

// Sheet is the full plan for one date+shift, keyed by employee number.
type Sheet map[string]Assignment

// ErrNotAssigned is returned when reassigning an associate with no
// existing assignment.
var ErrNotAssigned = errors.New("no assignment for employee")

// For returns the assignment for an employee number.
func (s Sheet) For(employeeNumber string) (Assignment, bool) {
	a, ok := s[employeeNumber]
	return a, ok
}

// Assign records (or replaces) the plan for one associate.
func (s Sheet) Assign(a Assignment, now time.Time) error {
	if err := Validate(a); err != nil {
		return err
	}
	a.AssignedAt = now
	s[a.EmployeeNumber] = a
	return nil
}

// Remove deletes the plan for one associate. Removing an absent entry is
// a no-op.
func (s Sheet) Remove(employeeNumber string) {
	delete(s, employeeNumber)
}

// Reassign moves an existing assignment to a different line.
func (s Sheet) Reassign(employeeNumber, line string, leads []string, now time.Time) error {
	a, ok := s[employeeNumber]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAssigned, employeeNumber)
	}
	a.Line = line
	a.Leads = append([]string(nil), leads...)
	a.ReassignedAt = now
	s[employeeNumber] = a
	return nil
}

// ByLine returns every assignment planned for a line letter.
func (s Sheet) ByLine(line string) []Assignment {
	var out []Assignment
	for _, a := range s {
		if a.Line == line {
			out = append(out, a)
		}
	}
	return out
}

// Unassigned returns the employee numbers present in actives but missing
// from the sheet.
func (s Sheet) Unassigned(actives map[string]struct{}) []string {
	var out []string
	for emp := range actives {
		if _, ok := s[emp]; !ok {
			out = append(out, emp)
		}
	}
	return out
}

// Validate checks the required fields of an assignment.
func Validate(a Assignment) error {
	switch {
	case a.EmployeeNumber == "":
		return errors.New("employee number is required")
	case a.FirstName == "" || a.LastName == "":
		return errors.New("first and last name are required")
	case a.Line == "":
		return errors.New("line assignment is required")
	}
	return nil
}

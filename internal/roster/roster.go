// Package roster holds the authoritative associate records the scan
// pipeline resolves badges against.
//
// Records arrive from an external import collaborator (spreadsheet upload
// in the original deployment). Validation happens once, here at the import
// boundary; the rest of the core trusts roster records without re-checking
// fields.
package roster

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Associate is one roster member eligible to be scanned in.
type Associate struct {
	EmployeeNumber string    `json:"employeeNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"startDate,omitzero"`
}

// FullName returns "First Last".
func (a Associate) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Roster maps employee number to associate record.
type Roster map[string]Associate

// Lookup returns the associate for an employee number.
func (r Roster) Lookup(employeeNumber string) (Associate, bool) {
	a, ok := r[employeeNumber]
	return a, ok
}

// Statuses the import excludes. Anyone else is eligible to scan in.
var inactiveStatuses = map[string]bool{
	"terminated": true,
	"inactive":   true,
	"ended":      true,
}

var titleCaser = cases.Title(language.English)

// ErrInvalidRecord is wrapped by every validation failure from Normalize.
var ErrInvalidRecord = errors.New("invalid roster record")

// Normalize validates one imported record and returns its canonical form.
//
//   - first/last name are required; they are trimmed and title-cased
//   - the employee number is reduced to its digits and must keep >= 6
//   - terminated/inactive/ended records are rejected here so downstream
//     code never sees them
func Normalize(a Associate) (Associate, error) {
	a.FirstName = titleCaser.String(strings.TrimSpace(a.FirstName))
	a.LastName = titleCaser.String(strings.TrimSpace(a.LastName))
	if a.FirstName == "" || a.LastName == "" {
		return Associate{}, fmt.Errorf("%w: missing name for %q", ErrInvalidRecord, a.EmployeeNumber)
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, a.EmployeeNumber)
	if len(digits) < 6 {
		return Associate{}, fmt.Errorf("%w: employee number %q too short", ErrInvalidRecord, a.EmployeeNumber)
	}
	a.EmployeeNumber = digits

	if inactiveStatuses[strings.ToLower(strings.TrimSpace(a.Status))] {
		return Associate{}, fmt.Errorf("%w: %s is not active (status %q)", ErrInvalidRecord, a.EmployeeNumber, a.Status)
	}
	return a, nil
}

// Build normalizes a batch of imported records into a Roster. Invalid
// records are dropped and returned separately so the import UI can report
// them; they never reach the core.
func Build(records []Associate) (Roster, []error) {
	r := make(Roster, len(records))
	var rejected []error
	for _, rec := range records {
		a, err := Normalize(rec)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		r[a.EmployeeNumber] = a
	}
	return r, rejected
}

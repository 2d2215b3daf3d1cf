// Package board defines the staffing board data model and the pure
// operations that mutate it: presence resolution, waitlist inserts,
// drag moves between slots, line edits, and cut/lock handling.
//
// ARCHITECTURE:
//
// Every operation in this package is a pure function from one Snapshot to
// the next. Callers (normally store.BoardStore) clone the current snapshot,
// apply one operation, and commit the result as a single state transition.
// This keeps the reassignment rules unit-testable without simulating pointer
// events, and it makes the uniqueness invariant enforceable in one place.
//
// INVARIANT (uniqueness of presence):
// An employee number appears in at most one of {waitlist, any line position}
// in every committed snapshot. Operations that relocate an occupant (moves,
// line cuts) carry the employee number with the displaced contents rather
// than dropping it, so the invariant survives round trips.
//
// Operations never mutate their input. A failed operation returns the input
// snapshot unchanged alongside a sentinel error; callers treat any error as
// "do not commit".
package board

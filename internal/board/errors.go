package board

import "errors"

// Sentinel errors returned by board operations. Callers treat every error
// as "do not commit" - the returned snapshot is always the unchanged input.
var (
	// ErrLocked indicates the board is frozen and rejects all mutations
	// until explicitly unlocked.
	ErrLocked = errors.New("board is locked")

	// ErrCutLine indicates a move or edit touched a cut line. Cut lines
	// are read-only until restored.
	ErrCutLine = errors.New("line is cut")

	// ErrVacantSource indicates the source of a move has no occupant.
	// Moving nothing is a no-op.
	ErrVacantSource = errors.New("source is vacant")

	// ErrNoSuchRef indicates a move endpoint did not resolve to an
	// existing waitlist entry or line position.
	ErrNoSuchRef = errors.New("no such board reference")

	// ErrUnsupportedMove indicates a move with no defined semantics
	// (waitlist-to-waitlist reordering).
	ErrUnsupportedMove = errors.New("unsupported move")

	// ErrNoSuchLine indicates a line edit referenced an unknown line id.
	ErrNoSuchLine = errors.New("no such line")
)

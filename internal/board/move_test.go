package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBoard builds a two-line board with a partially filled waitlist:
//
//	Line A (line-a): pos a1 = Alice Smith (#1000001), pos a2 vacant
//	Line B (line-b): pos b1 = Bob Jones (#1000002)
//	Waitlist: w1 = Cara Lee (#1000003), w2 = empty row
func testBoard() Snapshot {
	return Snapshot{
		Date:  "2026-08-29",
		Shift: "1st",
		Lines: []Line{
			{
				ID:     "line-a",
				Letter: "A",
				Needed: 2,
				Positions: []Position{
					{ID: "a1", Name: "Alice Smith", EmployeeNumber: "1000001"},
					{ID: "a2"},
				},
			},
			{
				ID:     "line-b",
				Letter: "B",
				Needed: 1,
				Positions: []Position{
					{ID: "b1", Name: "Bob Jones", EmployeeNumber: "1000002"},
				},
			},
		},
		Waitlist: []WaitlistEntry{
			{ID: "w1", Name: "Cara Lee", EmployeeNumber: "1000003"},
			{ID: "w2"},
		},
	}
}

// assertUnique fails if any employee number appears in more than one place.
func assertUnique(t *testing.T, s Snapshot) {
	t.Helper()
	for emp, locs := range Holders(s) {
		assert.Len(t, locs, 1, "employee %s appears in %v", emp, locs)
	}
}

func TestMove_WaitlistToVacantPosition(t *testing.T) {
	s := testBoard()

	out, err := Move(s, WaitlistRef("w1"), PositionRef("line-a", "a2"), NewFixedGenerator())
	require.NoError(t, err)

	// Entry consumed, slot filled.
	assert.Len(t, out.Waitlist, 1)
	assert.Equal(t, "w2", out.Waitlist[0].ID)
	pos := out.Lines[0].Positions[1]
	assert.Equal(t, "Cara Lee", pos.Name)
	assert.Equal(t, "1000003", pos.EmployeeNumber)
	assertUnique(t, out)
}

func TestMove_WaitlistToOccupiedPosition_DisplacesOccupant(t *testing.T) {
	s := testBoard()

	out, err := Move(s, WaitlistRef("w1"), PositionRef("line-a", "a1"), NewFixedGenerator("w-new"))
	require.NoError(t, err)

	pos := out.Lines[0].Positions[0]
	assert.Equal(t, "Cara Lee", pos.Name)
	assert.Equal(t, "1000003", pos.EmployeeNumber)

	// Alice lands on the waitlist with her employee number intact.
	require.Len(t, out.Waitlist, 2)
	displaced := out.Waitlist[1]
	assert.Equal(t, "w-new", displaced.ID)
	assert.Equal(t, "Alice Smith", displaced.Name)
	assert.Equal(t, "1000001", displaced.EmployeeNumber)
	assertUnique(t, out)
}

func TestMove_PositionToWaitlist(t *testing.T) {
	s := testBoard()

	out, err := Move(s, PositionRef("line-a", "a1"), WaitlistTarget(), NewFixedGenerator("w-new"))
	require.NoError(t, err)

	assert.True(t, out.Lines[0].Positions[0].Vacant())
	assert.Empty(t, out.Lines[0].Positions[0].EmployeeNumber)
	require.Len(t, out.Waitlist, 3)
	assert.Equal(t, "Alice Smith", out.Waitlist[2].Name)
	assert.Equal(t, "1000001", out.Waitlist[2].EmployeeNumber)
	assertUnique(t, out)
}

func TestMove_PositionToPosition_SwapsAcrossLines(t *testing.T) {
	s := testBoard()

	out, err := Move(s, PositionRef("line-a", "a1"), PositionRef("line-b", "b1"), NewFixedGenerator())
	require.NoError(t, err)

	assert.Equal(t, "Bob Jones", out.Lines[0].Positions[0].Name)
	assert.Equal(t, "1000002", out.Lines[0].Positions[0].EmployeeNumber)
	assert.Equal(t, "Alice Smith", out.Lines[1].Positions[0].Name)
	assert.Equal(t, "1000001", out.Lines[1].Positions[0].EmployeeNumber)
	assertUnique(t, out)
}

func TestMove_SwapWithVacantTarget(t *testing.T) {
	s := testBoard()

	out, err := Move(s, PositionRef("line-a", "a1"), PositionRef("line-a", "a2"), NewFixedGenerator())
	require.NoError(t, err)

	assert.True(t, out.Lines[0].Positions[0].Vacant())
	assert.Equal(t, "Alice Smith", out.Lines[0].Positions[1].Name)
	assertUnique(t, out)
}

func TestMove_VacantSource(t *testing.T) {
	s := testBoard()

	_, err := Move(s, PositionRef("line-a", "a2"), WaitlistTarget(), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrVacantSource)

	_, err = Move(s, WaitlistRef("w2"), PositionRef("line-a", "a2"), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrVacantSource)
}

func TestMove_CutLine_RejectsBothEndpoints(t *testing.T) {
	s := testBoard()
	s.Lines[1].IsCut = true

	_, err := Move(s, PositionRef("line-b", "b1"), WaitlistTarget(), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrCutLine)

	_, err = Move(s, WaitlistRef("w1"), PositionRef("line-b", "b1"), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrCutLine)
}

func TestMove_Locked(t *testing.T) {
	s := testBoard()
	s.Locked = true

	out, err := Move(s, WaitlistRef("w1"), PositionRef("line-a", "a2"), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, s, out, "locked board must be returned unchanged")
}

func TestMove_WaitlistToWaitlist_Unsupported(t *testing.T) {
	s := testBoard()

	_, err := Move(s, WaitlistRef("w1"), WaitlistTarget(), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrUnsupportedMove)
}

func TestMove_UnknownRefs(t *testing.T) {
	s := testBoard()

	_, err := Move(s, WaitlistRef("missing"), PositionRef("line-a", "a2"), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrNoSuchRef)

	_, err = Move(s, WaitlistRef("w1"), PositionRef("line-x", "a2"), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrNoSuchRef)

	_, err = Move(s, WaitlistRef("w1"), PositionRef("line-a", "zzz"), NewFixedGenerator())
	assert.ErrorIs(t, err, ErrNoSuchRef)
}

func TestMove_ErrorLeavesInputUntouched(t *testing.T) {
	s := testBoard()
	snapshotBefore := s.Clone()

	_, err := Move(s, WaitlistRef("w2"), PositionRef("line-a", "a1"), NewFixedGenerator())
	require.Error(t, err)
	assert.Equal(t, snapshotBefore, s)
}

func TestMove_RoundTripRestoresContents(t *testing.T) {
	s := testBoard()

	// Waitlist -> position displaces Alice, then moving Alice back out and
	// Cara back in restores the original contents (entry ids differ).
	step1, err := Move(s, WaitlistRef("w1"), PositionRef("line-a", "a1"), NewFixedGenerator("d1"))
	require.NoError(t, err)
	step2, err := Move(step1, WaitlistRef("d1"), PositionRef("line-a", "a1"), NewFixedGenerator("d2"))
	require.NoError(t, err)

	pos := step2.Lines[0].Positions[0]
	assert.Equal(t, "Alice Smith", pos.Name)
	assert.Equal(t, "1000001", pos.EmployeeNumber)
	assert.Equal(t, "Cara Lee", step2.Waitlist[1].Name)
	assert.Equal(t, "1000003", step2.Waitlist[1].EmployeeNumber)
	assertUnique(t, step2)
}

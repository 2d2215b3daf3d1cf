package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind_WaitlistMatch(t *testing.T) {
	s := testBoard()

	p := Find(s, "1000003")
	assert.True(t, p.Present)
	assert.True(t, p.OnWaitlist)
	assert.Equal(t, "waitlist", p.Location)
	assert.Equal(t, "w1", p.EntryID)
}

func TestFind_LineMatch(t *testing.T) {
	s := testBoard()

	p := Find(s, "1000002")
	assert.True(t, p.Present)
	assert.False(t, p.OnWaitlist)
	assert.Equal(t, "Line B", p.Location)
	assert.Equal(t, "line-b", p.LineID)
	assert.Equal(t, "b1", p.PositionID)
	assert.Equal(t, "Bob Jones", p.PositionName)
}

func TestFind_WaitlistWinsOverLines(t *testing.T) {
	s := testBoard()
	// Same employee number in both places (invariant violation, but Find
	// must still answer deterministically).
	s.Waitlist[1].Name = "Bob Jones"
	s.Waitlist[1].EmployeeNumber = "1000002"

	p := Find(s, "1000002")
	assert.True(t, p.OnWaitlist)
	assert.Equal(t, "waitlist", p.Location)
}

func TestFind_NotPresent(t *testing.T) {
	s := testBoard()

	p := Find(s, "9999999")
	assert.False(t, p.Present)
	assert.Empty(t, p.Location)
}

func TestFind_EmptyEmployeeNumber(t *testing.T) {
	s := testBoard()
	// Manual rows have no employee number; an empty query must never match
	// them.
	p := Find(s, "")
	assert.False(t, p.Present)
}

package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescent-ops/lineup/internal/assign"
	"github.com/crescent-ops/lineup/internal/board"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "lineup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_SnapshotRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	snap := board.Snapshot{
		Date:  "2026-08-29",
		Shift: "1st",
		Lines: []board.Line{
			{ID: "line-a", Letter: "A", Leads: []string{"Lead One"}, Needed: 1,
				Positions: []board.Position{{ID: "a1", Name: "Alice Smith", EmployeeNumber: "1000001"}}},
		},
		Waitlist:    []board.WaitlistEntry{{ID: "w1", Name: "Cara Lee", EmployeeNumber: "1000003"}},
		LastUpdated: time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.PutSnapshot(ctx, snap))

	got, err := c.GetSnapshot(ctx, "2026-08-29", "1st")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap, *got)
}

func TestCache_GetSnapshot_Missing(t *testing.T) {
	c := openTestCache(t)

	got, err := c.GetSnapshot(context.Background(), "2026-08-29", "2nd")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_PutSnapshot_Upserts(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	snap := board.Snapshot{Date: "2026-08-29", Shift: "1st"}
	require.NoError(t, c.PutSnapshot(ctx, snap))

	snap.Locked = true
	require.NoError(t, c.PutSnapshot(ctx, snap))

	got, err := c.GetSnapshot(ctx, "2026-08-29", "1st")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Locked)
}

func TestCache_AssignmentsRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	sheet := assign.Sheet{
		"1000001": {EmployeeNumber: "1000001", FirstName: "Alice", LastName: "Smith", Line: "A"},
	}
	require.NoError(t, c.PutAssignments(ctx, "2026-08-29", "1st", sheet))

	got, err := c.GetAssignments(ctx, "2026-08-29", "1st")
	require.NoError(t, err)
	assert.Equal(t, sheet, got)

	missing, err := c.GetAssignments(ctx, "2026-08-29", "2nd")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCache_ScanLogOrderAndIdempotency(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)

	// Insert out of order; reads come back by timestamp.
	require.NoError(t, c.AppendScan(ctx, "2026-08-29", "1st", base.Add(time.Minute), json.RawMessage(`{"n":2}`)))
	require.NoError(t, c.AppendScan(ctx, "2026-08-29", "1st", base, json.RawMessage(`{"n":1}`)))

	// Replaying an identical timestamp is a silent no-op.
	require.NoError(t, c.AppendScan(ctx, "2026-08-29", "1st", base, json.RawMessage(`{"n":1}`)))

	entries, err := c.ListScans(ctx, "2026-08-29", "1st")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.JSONEq(t, `{"n":1}`, string(entries[0]))
	assert.JSONEq(t, `{"n":2}`, string(entries[1]))
}

func TestCache_ScanLogScopedByShift(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	ts := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)

	require.NoError(t, c.AppendScan(ctx, "2026-08-29", "1st", ts, json.RawMessage(`{"shift":1}`)))
	require.NoError(t, c.AppendScan(ctx, "2026-08-29", "2nd", ts, json.RawMessage(`{"shift":2}`)))

	entries, err := c.ListScans(ctx, "2026-08-29", "1st")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"shift":1}`, string(entries[0]))
}

func TestOpenCache_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineup.db")

	c1, err := OpenCache(path)
	require.NoError(t, err)
	require.NoError(t, c1.PutSnapshot(context.Background(), board.Snapshot{Date: "2026-08-29", Shift: "1st"}))
	require.NoError(t, c1.Close())

	// Reopening applies the schema again without clobbering data.
	c2, err := OpenCache(path)
	require.NoError(t, err)
	defer c2.Close()

	got, err := c2.GetSnapshot(context.Background(), "2026-08-29", "1st")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

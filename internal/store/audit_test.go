package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescent-ops/lineup/internal/scan"
)

func auditRecord(emp string, ts time.Time) scan.AuditRecord {
	return scan.AuditRecord{
		Status:          scan.StatusAdded,
		Success:         true,
		EmployeeNumber:  emp,
		Associate:       &scan.AuditPerson{FirstName: "Alice", LastName: "Smith"},
		Message:         "ok",
		AddedToWaitlist: true,
		Raw:             "PLX-" + emp + "-ABC",
		Timestamp:       ts,
	}
}

func TestAuditLog_RecordAndList(t *testing.T) {
	c := openTestCache(t)
	remote := NewMemoryRemote()
	log := NewAuditLog("2026-08-29", "1st", c, remote, nil)
	ctx := context.Background()
	base := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)

	require.NoError(t, log.Record(ctx, auditRecord("1000001", base)))
	require.NoError(t, log.Record(ctx, auditRecord("1000002", base.Add(time.Second))))

	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1000001", records[0].EmployeeNumber)
	assert.Equal(t, "1000002", records[1].EmployeeNumber)
	assert.Equal(t, "Alice", records[0].Associate.FirstName)

	// The remote tier got the same entries under timestamped paths.
	raw, err := remote.Get(ctx, scanLogPath("2026-08-29", "1st", base.UnixMilli()))
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestAuditLog_RemoteFailureIsSwallowed(t *testing.T) {
	c := openTestCache(t)
	log := NewAuditLog("2026-08-29", "1st", c, failingRemote{}, nil)
	ctx := context.Background()

	err := log.Record(ctx, auditRecord("1000001", time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)))
	assert.NoError(t, err)

	// The cache copy still landed.
	records, err := log.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAuditLog_ListWithoutCache(t *testing.T) {
	log := NewAuditLog("2026-08-29", "1st", nil, nil, nil)

	records, err := log.List(context.Background())
	require.NoError(t, err)
	assert.Nil(t, records)
}

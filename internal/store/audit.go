package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/crescent-ops/lineup/internal/scan"
)

// AuditLog records audited scan results under the per-date-shift scan log
// path, keyed by Unix-millisecond timestamp. Writes go to both tiers;
// either tier failing is swallowed and logged - audit delivery is not
// guaranteed and must never fail a scan.
type AuditLog struct {
	date   string
	shift  string
	cache  *Cache
	remote Remote
	log    *slog.Logger
}

// NewAuditLog creates an audit log for one date+shift.
func NewAuditLog(date, shift string, cache *Cache, remote Remote, log *slog.Logger) *AuditLog {
	if log == nil {
		log = slog.Default()
	}
	return &AuditLog{date: date, shift: shift, cache: cache, remote: remote, log: log}
}

// Record implements scan.AuditSink.
func (a *AuditLog) Record(ctx context.Context, rec scan.AuditRecord) error {
	entry, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("audit record: %w", err)
	}

	if a.cache != nil {
		if err := a.cache.AppendScan(ctx, a.date, a.shift, rec.Timestamp, entry); err != nil {
			a.log.Warn("audit cache write failed", "error", err)
		}
	}
	if a.remote != nil {
		path := scanLogPath(a.date, a.shift, rec.Timestamp.UnixMilli())
		if err := a.remote.Set(ctx, path, rec); err != nil {
			a.log.Warn("audit remote write failed", "path", path, "error", err)
		}
	}
	return nil
}

// List returns the locally cached audit entries for this date+shift in
// timestamp order.
func (a *AuditLog) List(ctx context.Context) ([]scan.AuditRecord, error) {
	if a.cache == nil {
		return nil, nil
	}
	raw, err := a.cache.ListScans(ctx, a.date, a.shift)
	if err != nil {
		return nil, err
	}
	records := make([]scan.AuditRecord, 0, len(raw))
	for _, r := range raw {
		var rec scan.AuditRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, fmt.Errorf("audit list: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

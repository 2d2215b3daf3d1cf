package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crescent-ops/lineup/internal/assign"
	"github.com/crescent-ops/lineup/internal/board"
)

//go:embed schema.sql
var schemaSQL string

// Cache is the fast local persistence tier, backed by SQLite with WAL
// mode. It remains authoritative whenever the shared store is unreachable.
type Cache struct {
	db *sql.DB
}

// OpenCache creates or opens the cache database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// PutSnapshot upserts the full board snapshot for its date+shift.
func (c *Cache) PutSnapshot(ctx context.Context, snap board.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO snapshots (date, shift, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, shift) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, snap.Date, snap.Shift, string(data), snap.LastUpdated.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the cached snapshot for date+shift, or (nil, nil)
// when none exists.
func (c *Cache) GetSnapshot(ctx context.Context, date, shift string) (*board.Snapshot, error) {
	var data string
	err := c.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots WHERE date = ? AND shift = ?
	`, date, shift).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap board.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

// PutAssignments upserts the daily assignment sheet for date+shift.
func (c *Cache) PutAssignments(ctx context.Context, date, shift string, sheet assign.Sheet) error {
	data, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("put assignments: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO assignments (date, shift, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, shift) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, date, shift, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put assignments: %w", err)
	}
	return nil
}

// GetAssignments returns the cached sheet for date+shift, or (nil, nil).
func (c *Cache) GetAssignments(ctx context.Context, date, shift string) (assign.Sheet, error) {
	var data string
	err := c.db.QueryRowContext(ctx, `
		SELECT data FROM assignments WHERE date = ? AND shift = ?
	`, date, shift).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignments: %w", err)
	}

	var sheet assign.Sheet
	if err := json.Unmarshal([]byte(data), &sheet); err != nil {
		return nil, fmt.Errorf("get assignments: %w", err)
	}
	return sheet, nil
}

// AppendScan inserts one audit log entry. Uses ON CONFLICT DO NOTHING for
// idempotency - replaying the same timestamped entry is silently ignored.
func (c *Cache) AppendScan(ctx context.Context, date, shift string, ts time.Time, entry json.RawMessage) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO scan_log (date, shift, ts, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, date, shift, ts.UnixMilli(), string(entry))
	if err != nil {
		return fmt.Errorf("append scan: %w", err)
	}
	return nil
}

// ListScans returns the audit entries for date+shift in timestamp order.
func (c *Cache) ListScans(ctx context.Context, date, shift string) ([]json.RawMessage, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT data FROM scan_log WHERE date = ? AND shift = ? ORDER BY ts ASC
	`, date, shift)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var entries []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list scans: %w", err)
		}
		entries = append(entries, json.RawMessage(data))
	}
	return entries, rows.Err()
}

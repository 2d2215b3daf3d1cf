package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/crescent-ops/lineup/internal/assign"
)

// LoadAssignments reads the daily assignment sheet for date+shift,
// remote-first with cache fallback. A missing sheet is an empty one.
func LoadAssignments(ctx context.Context, cache *Cache, remote Remote, date, shift string, log *slog.Logger) assign.Sheet {
	if log == nil {
		log = slog.Default()
	}
	if remote != nil {
		raw, err := remote.Get(ctx, assignmentsPath(date, shift))
		if err != nil {
			log.Warn("assignments remote load failed, falling back to cache", "error", err)
		} else if raw != nil {
			var sheet assign.Sheet
			if err := json.Unmarshal(raw, &sheet); err != nil {
				log.Warn("assignments payload malformed", "error", err)
			} else {
				return sheet
			}
		}
	}
	if cache != nil {
		sheet, err := cache.GetAssignments(ctx, date, shift)
		if err != nil {
			log.Warn("assignments cache load failed", "error", err)
		} else if sheet != nil {
			return sheet
		}
	}
	return assign.Sheet{}
}

// SaveAssignments writes the sheet to both tiers. The cache write must
// succeed; the shared-store write is best-effort.
func SaveAssignments(ctx context.Context, cache *Cache, remote Remote, date, shift string, sheet assign.Sheet, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if cache != nil {
		if err := cache.PutAssignments(ctx, date, shift, sheet); err != nil {
			return fmt.Errorf("save assignments: %w", err)
		}
	}
	if remote != nil {
		if err := remote.Set(ctx, assignmentsPath(date, shift), sheet); err != nil {
			log.Warn("assignments shared store write failed", "error", err)
		}
	}
	return nil
}

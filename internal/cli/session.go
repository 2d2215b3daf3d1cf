package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/crescent-ops/lineup/internal/assign"
	"github.com/crescent-ops/lineup/internal/store"
)

// session bundles the stores a command needs for one date+shift. The CLI
// runs against the local cache tier only; the shared store is an external
// collaborator wired by the embedding deployment.
type session struct {
	cache *store.Cache
	board *store.BoardStore
	sheet assign.Sheet
	audit *store.AuditLog
	date  string
	shift string
}

// openSession opens the local cache and loads the active board and
// assignment sheet.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "create data dir", err)
	}
	cache, err := store.OpenCache(filepath.Join(opts.DataDir, "lineup.db"))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open cache", err)
	}

	boardStore := store.NewBoardStore(store.BoardConfig{Cache: cache})
	boardStore.Load(ctx, opts.Date, opts.Shift)

	return &session{
		cache: cache,
		board: boardStore,
		sheet: store.LoadAssignments(ctx, cache, nil, opts.Date, opts.Shift, slog.Default()),
		audit: store.NewAuditLog(opts.Date, opts.Shift, cache, nil, slog.Default()),
		date:  opts.Date,
		shift: opts.Shift,
	}, nil
}

// close flushes pending edits and releases the cache.
func (s *session) close(ctx context.Context) error {
	s.board.Flush(ctx)
	s.board.Close()
	if err := s.cache.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	return nil
}

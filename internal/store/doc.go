// Package store owns persistence for the staffing board: the canonical
// in-memory snapshot, the debounced dual-tier write path (SQLite local
// cache + shared remote store), the remote-echo reconciliation guard, and
// the scan audit log.
//
// ARCHITECTURE:
//
// BoardStore is the single mutation point for the board. Every edit goes
// through Mutate (or a wrapper like Move/AddScan), which applies a pure
// board operation and commits the result as one transition. Persistence is
// debounced: bursts of edits inside the quiet window coalesce into one
// full-snapshot write to both tiers.
//
// Reconciliation is last-writer-wins with a local lockout window, not a
// conflict-free merge: a local-change flag is held from the first edit
// until shortly after the persist completes, and remote updates arriving
// while the flag is set are dropped so the echo of our own write cannot
// clobber edits made in the interim. True concurrent multi-operator
// editing would need a per-field merge layer; this package deliberately
// implements only the observed lockout behavior.
//
// Failure model: the shared store is best-effort. A remote write failure
// surfaces as a transient "Error saving" status and never rolls back the
// local snapshot; a local cache failure is swallowed and surfaced as
// status text. No operation here throws into the caller's display path.
package store

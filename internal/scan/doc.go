// Package scan implements the badge intake pipeline: decoding a raw badge
// payload, resolving it against the roster and the live board, classifying
// the outcome, and driving the side effects (waitlist insert, audio cue,
// audit log entry, door unlock request).
//
// ARCHITECTURE:
//
// The pipeline is a small state machine driven by discrete scan events:
//
//	Idle -> Decoding -> Resolving -> {Invalid|Unknown|Duplicate|Added} -> Displaying -> Idle
//
// Overlapping scans are dropped, not queued: badge hardware emits one code
// at a time at human cadence, and dropping prevents double-insert races
// without a queue. The only board mutation the pipeline ever performs is
// the idempotent waitlist insert; it never writes line positions, which
// keeps the uniqueness invariant enforceable inside the board store.
//
// Side effects are advisory. The audio cue and audit write run off the
// classification path and may fail without affecting the returned result;
// a failed audit write is swallowed and only logged.
package scan

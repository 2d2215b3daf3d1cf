package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Remote is the shared-store collaborator: a path-addressed JSON document
// tree with change subscriptions. The real backend lives outside the core;
// every operation against it must degrade gracefully to the local cache.
type Remote interface {
	// Get returns the value at path, or (nil, nil) when absent.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Set writes the value at path, replacing any existing value.
	Set(ctx context.Context, path string, value any) error

	// Subscribe registers fn for every subsequent write to path and
	// returns an unsubscribe func. fn receives the written JSON value.
	Subscribe(path string, fn func(json.RawMessage)) (func(), error)
}

// Well-known remote paths, keyed the way the shared store lays them out.
func staffingPath(date, shift string) string {
	return fmt.Sprintf("staffing/%s_%s", date, shift)
}

func assignmentsPath(date, shift string) string {
	return fmt.Sprintf("assignments/%s/%s", date, shift)
}

func scanLogPath(date, shift string, unixMilli int64) string {
	return fmt.Sprintf("scanLog/%s_%s/%d", date, shift, unixMilli)
}

// MemoryRemote is an in-process Remote used by tests and by the CLI when
// no shared backend is configured.
//
// Subscribers are notified synchronously from Set, on the caller's
// goroutine. That mirrors how a write's echo can land back on the writer
// and is exactly what the reconciliation tests need to provoke.
//
// Thread-safety: safe for concurrent use via internal mutex; callbacks run
// outside the lock.
type MemoryRemote struct {
	mu      sync.Mutex
	values  map[string]json.RawMessage
	subs    map[string]map[int]func(json.RawMessage)
	nextSub int
}

// NewMemoryRemote creates an empty in-memory remote.
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{
		values: make(map[string]json.RawMessage),
		subs:   make(map[string]map[int]func(json.RawMessage)),
	}
}

// Get implements Remote.
func (m *MemoryRemote) Get(_ context.Context, path string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[path]
	if !ok {
		return nil, nil
	}
	return append(json.RawMessage(nil), v...), nil
}

// Set implements Remote.
func (m *MemoryRemote) Set(_ context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("remote set %s: %w", path, err)
	}

	m.mu.Lock()
	m.values[path] = raw
	var fns []func(json.RawMessage)
	for _, fn := range m.subs[path] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(append(json.RawMessage(nil), raw...))
	}
	return nil
}

// Subscribe implements Remote.
func (m *MemoryRemote) Subscribe(path string, fn func(json.RawMessage)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs[path] == nil {
		m.subs[path] = make(map[int]func(json.RawMessage))
	}
	id := m.nextSub
	m.nextSub++
	m.subs[path][id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[path], id)
	}, nil
}

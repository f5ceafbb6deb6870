// Package lockmgr provides the single process-wide reader/writer guard that
// protects asset price state. Every code path that reads or mutates prices
// shares one Manager instance, injected at wiring time.
package lockmgr

import "sync"

// Manager wraps one RWMutex behind scoped-acquisition handles. Acquire
// methods return a release func so the lock is released on every exit path
// with a single defer.
type Manager struct {
	mu sync.RWMutex
}

// New creates a Manager.
func New() *Manager {
	return &Manager{}
}

// Read acquires the shared read side. Multiple readers may hold it
// concurrently. The returned func must be called exactly once.
func (m *Manager) Read() (release func()) {
	m.mu.RLock()
	return m.mu.RUnlock
}

// Write acquires the exclusive write side, excluding all readers and other
// writers. The returned func must be called exactly once.
func (m *Manager) Write() (release func()) {
	m.mu.Lock()
	return m.mu.Unlock
}

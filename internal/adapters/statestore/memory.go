package statestore

import (
	"context"
	"sync"
)

// Memory is an in-process Store used when persistence is disabled and in
// tests.
type Memory struct {
	mu    sync.Mutex
	state State
	saved bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	m.saved = true
	return nil
}

// Load implements Store.
func (m *Memory) Load(_ context.Context) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.saved, nil
}

// Package testutil provides shared test utilities, fakes, and fixtures
// for testing the lendworks-web application.
package testutil

import (
	"sync"

	"lendworks-web/internal/session"
)

// MemStore implements session.Store in memory, mirroring the FileStore's
// read-side normalization so tests exercise the same contract.
type MemStore struct {
	mu     sync.Mutex
	Fields map[string]string
}

// NewMemStore creates an empty MemStore
func NewMemStore() *MemStore {
	return &MemStore{Fields: make(map[string]string)}
}

// Seed pre-populates the store, as if a previous process had written it.
func (m *MemStore) Seed(fields map[string]string) *MemStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range fields {
		m.Fields[k] = v
	}
	return m
}

func (m *MemStore) Write(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fields[key] = value
}

func (m *MemStore) Read(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Fields[key]
	if !ok {
		return "", false
	}
	return session.Normalize(raw)
}

func (m *MemStore) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Fields, key)
}

func (m *MemStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fields = make(map[string]string)
}

// Len reports how many keys are currently persisted.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Fields)
}

// Get returns the raw stored value without normalization.
func (m *MemStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Fields[key]
	return v, ok
}

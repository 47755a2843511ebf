package storage

import (
	"errors"
	"strconv"
	"sync"
)

// ErrClosed is returned by a Memory store after Close.
var ErrClosed = errors.New("storage: store is closed")

// KV is a flat string key-value store used for session snapshots.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Put inserts or replaces the value for key.
	Put(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// MaxKV is a KV that can raise a stored integer atomically, so concurrent
// writers never lower it.
type MaxKV interface {
	KV

	// PutMax stores value under key unless a larger integer is already
	// there, and returns the value left in place. A non-numeric value is
	// replaced.
	PutMax(key string, value int) (int, error)
}

// Memory is an in-memory KV guarded by a RWMutex.
// State is lost when the process exits.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get looks up key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Put stores value under key.
func (m *Memory) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.values[key] = value
	return nil
}

// PutMax raises the integer under key to value.
func (m *Memory) PutMax(key string, value int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	if cur, err := strconv.Atoi(m.values[key]); err == nil && cur >= value {
		return cur, nil
	}
	m.values[key] = strconv.Itoa(value)
	return value, nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.values, key)
	return nil
}

// Close makes every further call fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var (
	_ MaxKV = (*Memory)(nil)
	_ MaxKV = (*Store)(nil)
)

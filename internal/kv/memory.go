package kv

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
	quota   int64
	closed  bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory{entries: make(map[string]string), quota: o.quota}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	return m.Update(ctx, func(tx Tx) error {
		return tx.Set(ctx, key, value)
	})
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.entries, key)
	return nil
}

// Update applies fn to a copy of the entries and swaps it in on success.
func (m *Memory) Update(_ context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	tx := &memoryTx{entries: maps.Clone(m.entries), quota: m.quota}
	if err := fn(tx); err != nil {
		return err
	}
	m.entries = tx.entries
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type memoryTx struct {
	entries map[string]string
	quota   int64
}

func (t *memoryTx) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := t.entries[key]
	return v, ok, nil
}

func (t *memoryTx) Set(_ context.Context, key, value string) error {
	if t.quota > 0 {
		var used int64
		for k, v := range t.entries {
			if k != key {
				used += entrySize(k, v)
			}
		}
		if used+entrySize(key, value) > t.quota {
			return fmt.Errorf("set %s: %w", key, ErrQuotaExceeded)
		}
	}
	t.entries[key] = value
	return nil
}

func (t *memoryTx) Remove(_ context.Context, key string) error {
	delete(t.entries, key)
	return nil
}

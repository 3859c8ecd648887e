package journal

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/ahluxe/internal/kv"
)

// List is a durable append-only list of T stored as a JSON array at one key.
type List[T any] struct {
	key    string
	store  kv.Store
	logger *slog.Logger

	mu      sync.Mutex
	entries []T
	found   bool
}

// LoadList reads the list stored at key.
func LoadList[T any](ctx context.Context, store kv.Store, key string, logger *slog.Logger) *List[T] {
	if logger == nil {
		logger = slog.Default()
	}
	l := &List[T]{key: key, store: store, logger: logger}

	var stored []T
	found, err := kv.LoadJSON(ctx, store, key, &stored)
	if err != nil {
		logger.Warn("journal unreadable, starting empty", "key", key, "error", err)
		return l
	}
	l.entries = stored
	l.found = found
	return l
}

// Append adds v at the end of the list.
func (l *List[T]) Append(ctx context.Context, v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, v)
	l.save(ctx)
}

// Prepend adds v at the front of the list.
func (l *List[T]) Prepend(ctx context.Context, v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = slices.Insert(l.entries, 0, v)
	l.save(ctx)
}

// All returns the entries in storage order.
func (l *List[T]) All() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Found reports whether the key existed when the list was loaded.
func (l *List[T]) Found() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.found
}

// stageAppend writes the list with v appended through tx. The returned commit
// updates memory and must only run after tx commits.
func (l *List[T]) stageAppend(ctx context.Context, tx kv.Tx, v T) (func(), error) {
	l.mu.Lock()
	next := append(slices.Clone(l.entries), v)
	l.mu.Unlock()

	if err := kv.SaveJSON(ctx, tx, l.key, next); err != nil {
		return nil, err
	}
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.entries = next
		l.found = true
	}, nil
}

// save must be called with mu held.
func (l *List[T]) save(ctx context.Context) {
	entries := l.entries
	if entries == nil {
		entries = []T{}
	}
	if err := kv.SaveJSON(ctx, l.store, l.key, entries); err != nil {
		l.logger.Warn("journal not persisted", "key", l.key, "error", err)
		return
	}
	l.found = true
}

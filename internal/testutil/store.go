package testutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/ahluxe/internal/kv"
)

// ErrInjected is returned by FailingStore for every injected failure.
var ErrInjected = errors.New("testutil: injected storage failure")

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FailingStore wraps a kv.Store and injects failures on demand.
type FailingStore struct {
	kv.Store

	mu         sync.Mutex
	failReads  bool
	failWrites bool
	failKeys   map[string]bool
	writes     int
}

// NewFailingStore wraps inner. No failures are injected until configured.
func NewFailingStore(inner kv.Store) *FailingStore {
	return &FailingStore{Store: inner, failKeys: make(map[string]bool)}
}

// FailReads makes every Get fail.
func (f *FailingStore) FailReads(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReads = on
}

// FailWrites makes every Set and Remove fail.
func (f *FailingStore) FailWrites(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = on
}

// FailKey makes writes to key fail, including writes inside Update.
func (f *FailingStore) FailKey(key string, on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKeys[key] = on
}

// Writes returns the number of successful Set/Remove calls, direct or in a tx.
func (f *FailingStore) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *FailingStore) readErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return ErrInjected
	}
	return nil
}

func (f *FailingStore) writeErr(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites || f.failKeys[key] {
		return ErrInjected
	}
	return nil
}

func (f *FailingStore) countWrite() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
}

func (f *FailingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := f.readErr(); err != nil {
		return "", false, err
	}
	return f.Store.Get(ctx, key)
}

func (f *FailingStore) Set(ctx context.Context, key, value string) error {
	return f.Update(ctx, func(tx kv.Tx) error {
		return tx.Set(ctx, key, value)
	})
}

func (f *FailingStore) Remove(ctx context.Context, key string) error {
	return f.Update(ctx, func(tx kv.Tx) error {
		return tx.Remove(ctx, key)
	})
}

func (f *FailingStore) Update(ctx context.Context, fn func(tx kv.Tx) error) error {
	pending := 0
	err := f.Store.Update(ctx, func(tx kv.Tx) error {
		return fn(&failingTx{Tx: tx, owner: f, pending: &pending})
	})
	if err == nil {
		for i := 0; i < pending; i++ {
			f.countWrite()
		}
	}
	return err
}

type failingTx struct {
	kv.Tx
	owner   *FailingStore
	pending *int
}

func (t *failingTx) Get(ctx context.Context, key string) (string, bool, error) {
	if err := t.owner.readErr(); err != nil {
		return "", false, err
	}
	return t.Tx.Get(ctx, key)
}

func (t *failingTx) Set(ctx context.Context, key, value string) error {
	if err := t.owner.writeErr(key); err != nil {
		return err
	}
	if err := t.Tx.Set(ctx, key, value); err != nil {
		return err
	}
	*t.pending++
	return nil
}

func (t *failingTx) Remove(ctx context.Context, key string) error {
	if err := t.owner.writeErr(key); err != nil {
		return err
	}
	if err := t.Tx.Remove(ctx, key); err != nil {
		return err
	}
	*t.pending++
	return nil
}

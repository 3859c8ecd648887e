package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultQuota matches the per-origin capacity browsers give local storage.
const DefaultQuota = 5 << 20

var (
	// ErrQuotaExceeded is returned when a write would push the total size of
	// keys and values past the store quota. The write is not applied.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("kv: store closed")
)

// Reader reads a single key.
type Reader interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
}

// Tx is a view of the store inside Update. Writes become visible to other
// readers only if the Update function returns nil.
type Tx interface {
	Reader
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store is the durable key-value store.
type Store interface {
	Tx

	// Update runs fn in a transaction. If fn returns an error, or the commit
	// fails, no write made through the Tx is applied.
	Update(ctx context.Context, fn func(tx Tx) error) error

	Close() error
}

// LoadJSON decodes the JSON blob stored at key into v.
// Returns found=false with a nil error when the key is absent.
func LoadJSON(ctx context.Context, r Reader, key string, v any) (bool, error) {
	raw, ok, err := r.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("load %s: decode: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it at key.
func SaveJSON(ctx context.Context, w Tx, key string, v any) error {
	raw, err := Encode(v)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := w.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Encode returns the stored form of v: compact JSON without HTML escaping.
func Encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// entrySize is the quota cost of one entry.
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

// Package wishlist implements the wishlist ledger: an insertion-ordered set
// of product IDs mirrored to the durable store.
package wishlist

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/ahluxe/internal/kv"
)

// Outcome reports what Toggle did.
type Outcome string

const (
	Added   Outcome = "added"
	Removed Outcome = "removed"
)

// Ledger holds the wishlist. IDs are unique; display order is insertion order.
// Persistence follows the cart ledger: write-through on every mutation, and
// unreadable data loads as an empty list.
type Ledger struct {
	store  kv.Store
	logger *slog.Logger

	mu  sync.Mutex
	ids []string
}

// Load reads the persisted wishlist.
func Load(ctx context.Context, store kv.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Ledger{store: store, logger: logger}

	var stored []string
	if _, err := kv.LoadJSON(ctx, store, kv.KeyWishlist, &stored); err != nil {
		logger.Warn("wishlist unreadable, starting empty", "key", kv.KeyWishlist, "error", err)
		return l
	}
	for _, id := range stored {
		if id != "" && !slices.Contains(l.ids, id) {
			l.ids = append(l.ids, id)
		}
	}
	return l
}

// Toggle removes id if present, otherwise appends it.
func (l *Ledger) Toggle(ctx context.Context, id string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out Outcome
	if i := slices.Index(l.ids, id); i >= 0 {
		l.ids = slices.Delete(l.ids, i, i+1)
		out = Removed
	} else {
		l.ids = append(l.ids, id)
		out = Added
	}
	l.save(ctx)
	return out
}

// Remove deletes id. Removing an absent ID is a no-op and writes nothing.
func (l *Ledger) Remove(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.Index(l.ids, id)
	if i < 0 {
		return
	}
	l.ids = slices.Delete(l.ids, i, i+1)
	l.save(ctx)
}

// Contains reports membership.
func (l *Ledger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.ids, id)
}

// IDs returns the wishlist in insertion order.
func (l *Ledger) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.ids)
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

func (l *Ledger) save(ctx context.Context) {
	ids := l.ids
	if ids == nil {
		ids = []string{}
	}
	if err := kv.SaveJSON(ctx, l.store, kv.KeyWishlist, ids); err != nil {
		l.logger.Warn("wishlist not persisted", "key", kv.KeyWishlist, "error", err)
	}
}

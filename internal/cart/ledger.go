// Package cart implements the cart ledger: an ordered list of line items
// mirrored to the durable store on every mutation.
package cart

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/shop"
)

// Outcome reports what Add did.
type Outcome string

const (
	Added   Outcome = "added"
	Updated Outcome = "updated"
)

// AddResult is returned by Add.
type AddResult struct {
	Outcome  Outcome
	Quantity int64
	// FirstItem is true when the cart went from zero to one distinct item.
	FirstItem bool
}

// Ledger holds the cart line items.
//
// Invariants: at most one item per ID, every quantity >= 1. Totals are always
// derived from the items, never cached.
//
// Every mutating call writes the full list through to the store. A write that
// fails is logged and dropped; the in-memory ledger stays authoritative for
// the session.
type Ledger struct {
	store  kv.Store
	logger *slog.Logger

	mu    sync.Mutex
	items []shop.LineItem
}

// Load reads the persisted cart. Missing or corrupt data yields an empty ledger.
func Load(ctx context.Context, store kv.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Ledger{store: store, logger: logger}

	var stored []shop.LineItem
	if _, err := kv.LoadJSON(ctx, store, kv.KeyCart, &stored); err != nil {
		logger.Warn("cart unreadable, starting empty", "key", kv.KeyCart, "error", err)
		return l
	}
	l.items = sanitize(stored)
	return l
}

// sanitize drops entries that break the ledger invariants. The first entry
// for an ID wins.
func sanitize(items []shop.LineItem) []shop.LineItem {
	seen := make(map[string]bool, len(items))
	out := make([]shop.LineItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" || it.Quantity < 1 || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

// Add increments the quantity of an existing line or appends item with
// quantity 1.
func (l *Ledger) Add(ctx context.Context, item shop.LineItem) AddResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res AddResult
	if i := l.index(item.ID); i >= 0 {
		l.items[i].Quantity++
		res = AddResult{Outcome: Updated, Quantity: l.items[i].Quantity}
	} else {
		item.Quantity = 1
		l.items = append(l.items, item)
		res = AddResult{Outcome: Added, Quantity: 1, FirstItem: len(l.items) == 1}
	}

	l.save(ctx)
	return res
}

// ChangeQuantity adds delta to the item's quantity. A result <= 0 removes the
// item. Returns false when id is not in the cart.
func (l *Ledger) ChangeQuantity(ctx context.Context, id string, delta int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return false
	}
	if q := l.items[i].Quantity + delta; q <= 0 {
		l.items = slices.Delete(l.items, i, i+1)
	} else {
		l.items[i].Quantity = q
	}

	l.save(ctx)
	return true
}

// Remove deletes the item. Returns false when id is not in the cart.
func (l *Ledger) Remove(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)

	l.save(ctx)
	return true
}

// Clear empties the ledger unconditionally.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.save(ctx)
}

// StageClear writes an empty cart through tx and returns a commit function
// that empties the in-memory ledger. Call commit only after tx commits.
func (l *Ledger) StageClear(ctx context.Context, tx kv.Tx) (commit func(), err error) {
	if err := kv.SaveJSON(ctx, tx, kv.KeyCart, []shop.LineItem{}); err != nil {
		return nil, err
	}
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.items = nil
	}, nil
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []shop.LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return shop.CloneItems(l.items)
}

// Get returns the line for id.
func (l *Ledger) Get(id string) (shop.LineItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	return shop.LineItem{}, false
}

// Len returns the number of distinct items.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Totals sums the current items.
func (l *Ledger) Totals() shop.Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return shop.TotalsOf(l.items)
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.items, func(it shop.LineItem) bool { return it.ID == id })
}

// save must be called with mu held.
func (l *Ledger) save(ctx context.Context) {
	items := l.items
	if items == nil {
		items = []shop.LineItem{}
	}
	if err := kv.SaveJSON(ctx, l.store, kv.KeyCart, items); err != nil {
		l.logger.Warn("cart not persisted", "key", kv.KeyCart, "error", err)
	}
}

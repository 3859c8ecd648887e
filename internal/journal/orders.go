package journal

import (
	"context"
	"log/slog"
	"slices"

	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/shop"
)

// Orders is the order journal.
type Orders struct {
	list *List[shop.Order]
}

// LoadOrders reads the persisted order journal.
func LoadOrders(ctx context.Context, store kv.Store, logger *slog.Logger) *Orders {
	return &Orders{list: LoadList[shop.Order](ctx, store, kv.KeyOrders, logger)}
}

// Append records order. No dedupe is applied; checkout uses StageAppend.
func (o *Orders) Append(ctx context.Context, order shop.Order) {
	o.list.Append(ctx, cloneOrder(order))
}

// StageAppend writes order through tx as part of a larger transaction.
//
// The order number is the idempotency key: if the journal read through tx
// already holds an order with that number, nothing is written and
// duplicate=true is returned. commit must run only after tx commits.
func (o *Orders) StageAppend(ctx context.Context, tx kv.Tx, order shop.Order) (commit func(), duplicate bool, err error) {
	var stored []shop.Order
	if _, err := kv.LoadJSON(ctx, tx, kv.KeyOrders, &stored); err != nil {
		// Unreadable journal: fall back to the in-memory view.
		stored = o.list.All()
	}
	if slices.ContainsFunc(stored, func(x shop.Order) bool { return x.Number == order.Number }) {
		return func() {}, true, nil
	}

	commit, err = o.list.stageAppend(ctx, tx, cloneOrder(order))
	if err != nil {
		return nil, false, err
	}
	return commit, false, nil
}

// List returns all orders in storage (oldest-first) order.
func (o *Orders) List() []shop.Order {
	all := o.list.All()
	for i := range all {
		all[i] = cloneOrder(all[i])
	}
	return all
}

// Newest returns all orders newest-first, the order history display order.
func (o *Orders) Newest() []shop.Order {
	all := o.List()
	slices.Reverse(all)
	return all
}

// Find returns the order with the given number.
func (o *Orders) Find(number string) (shop.Order, bool) {
	for _, ord := range o.list.All() {
		if ord.Number == number {
			return cloneOrder(ord), true
		}
	}
	return shop.Order{}, false
}

// Len returns the number of orders.
func (o *Orders) Len() int {
	return o.list.Len()
}

func cloneOrder(o shop.Order) shop.Order {
	o.Items = shop.CloneItems(o.Items)
	return o
}

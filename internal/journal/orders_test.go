package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/shop"
	"github.com/roach88/ahluxe/internal/testutil"
)

func testOrder(number string) shop.Order {
	return shop.Order{
		Number:   number,
		Customer: shop.Customer{Name: "Ayesha", Phone: "03001234567", Address: "12 Mall Rd", City: "Lahore"},
		Items:    []shop.LineItem{{ID: "black", Name: "Black Abaya", Price: 2500, Quantity: 2}},
		Total:    5000,
		Date:     "1/15/2026, 10:30:00 AM",
		Status:   shop.OrderPending,
	}
}

func TestOrders_AppendAndList(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	o := LoadOrders(ctx, store, testutil.DiscardLogger())

	o.Append(ctx, testOrder("AHL-00001"))
	o.Append(ctx, testOrder("AHL-00002"))

	assert.Equal(t, 2, o.Len())
	assert.Equal(t, "AHL-00001", o.List()[0].Number)
	assert.Equal(t, "AHL-00002", o.Newest()[0].Number)

	reloaded := LoadOrders(ctx, store, testutil.DiscardLogger())
	assert.Equal(t, o.List(), reloaded.List())
}

func TestOrders_AppendIsSnapshot(t *testing.T) {
	ctx := context.Background()
	o := LoadOrders(ctx, kv.NewMemory(), testutil.DiscardLogger())

	order := testOrder("AHL-00001")
	o.Append(ctx, order)
	order.Items[0].Quantity = 50

	got, ok := o.Find("AHL-00001")
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Items[0].Quantity)

	got.Items[0].Quantity = 70
	again, _ := o.Find("AHL-00001")
	assert.Equal(t, int64(2), again.Items[0].Quantity)
}

func TestOrders_AppendDoesNotDedupe(t *testing.T) {
	ctx := context.Background()
	o := LoadOrders(ctx, kv.NewMemory(), testutil.DiscardLogger())
	o.Append(ctx, testOrder("AHL-00001"))
	o.Append(ctx, testOrder("AHL-00001"))
	assert.Equal(t, 2, o.Len())
}

func TestOrders_StageAppend(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	o := LoadOrders(ctx, store, testutil.DiscardLogger())

	var commit func()
	err := store.Update(ctx, func(tx kv.Tx) error {
		var dup bool
		var err error
		commit, dup, err = o.StageAppend(ctx, tx, testOrder("AHL-00001"))
		assert.False(t, dup)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 0, o.Len(), "memory waits for commit")
	commit()
	assert.Equal(t, 1, o.Len())

	// Same number again is a duplicate and writes nothing.
	err = store.Update(ctx, func(tx kv.Tx) error {
		_, dup, err := o.StageAppend(ctx, tx, testOrder("AHL-00001"))
		assert.True(t, dup)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, LoadOrders(ctx, store, testutil.DiscardLogger()).Len())
}

func TestOrders_StageAppendRolledBack(t *testing.T) {
	store := testutil.NewFailingStore(kv.NewMemory())
	ctx := context.Background()
	o := LoadOrders(ctx, store, testutil.DiscardLogger())
	store.FailKey(kv.KeyCart, true)

	err := store.Update(ctx, func(tx kv.Tx) error {
		if _, _, err := o.StageAppend(ctx, tx, testOrder("AHL-00001")); err != nil {
			return err
		}
		return tx.Set(ctx, kv.KeyCart, "[]")
	})
	require.ErrorIs(t, err, testutil.ErrInjected)

	assert.Equal(t, 0, o.Len())
	assert.Equal(t, 0, LoadOrders(ctx, store, testutil.DiscardLogger()).Len())
}

func TestOrders_CorruptLoadsEmpty(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, kv.KeyOrders, `[{"number":`))

	o := LoadOrders(ctx, store, testutil.DiscardLogger())
	assert.Equal(t, 0, o.Len())
}

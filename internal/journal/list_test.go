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

func TestList_AppendPrependPersist(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	l := LoadList[string](ctx, store, "notes", testutil.DiscardLogger())
	assert.False(t, l.Found())

	l.Append(ctx, "b")
	l.Prepend(ctx, "a")
	l.Append(ctx, "c")

	assert.Equal(t, []string{"a", "b", "c"}, l.All())
	assert.True(t, l.Found())

	raw, _, err := store.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, `["a","b","c"]`, raw)
}

func TestList_WriteFailureKeepsMemory(t *testing.T) {
	store := testutil.NewFailingStore(kv.NewMemory())
	ctx := context.Background()
	l := LoadList[int](ctx, store, "nums", testutil.DiscardLogger())
	store.FailWrites(true)

	l.Append(ctx, 1)
	assert.Equal(t, []int{1}, l.All())
	assert.False(t, l.Found())
}

func TestSupportJournals(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	c := LoadCancellations(ctx, store, testutil.DiscardLogger())
	c.Append(ctx, shop.CancellationRequest{OrderNumber: "AHL-00003", Phone: "0300", Status: shop.RequestPending})

	m := LoadContacts(ctx, store, testutil.DiscardLogger())
	m.Append(ctx, shop.ContactMessage{Name: "Sana", Email: "s@x.pk", Message: "Hi"})

	assert.Len(t, LoadCancellations(ctx, store, testutil.DiscardLogger()).All(), 1)
	assert.Len(t, LoadContacts(ctx, store, testutil.DiscardLogger()).All(), 1)

	_, ok, _ := store.Get(ctx, kv.KeyCancellationRequests)
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, kv.KeyContactMessages)
	assert.True(t, ok)
}

package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/ahluxe/internal/cart"
	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/messaging"
	"github.com/roach88/ahluxe/internal/sequence"
	"github.com/roach88/ahluxe/internal/shop"
	"github.com/roach88/ahluxe/internal/testutil"
	"github.com/roach88/ahluxe/internal/ui"
)

type fixture struct {
	store     kv.Store
	cart      *cart.Ledger
	orders    *journal.Orders
	seq       *sequence.Generator
	forms     *FormStore
	outbox    *messaging.Outbox
	presenter *ui.Recorder
	orch      *Orchestrator
}

func newFixture(t *testing.T, store kv.Store, sender messaging.Sender) *fixture {
	t.Helper()
	ctx := context.Background()
	log := testutil.DiscardLogger()

	f := &fixture{
		store:     store,
		cart:      cart.Load(ctx, store, log),
		orders:    journal.LoadOrders(ctx, store, log),
		seq:       sequence.New(store, log),
		forms:     NewFormStore(store, log),
		outbox:    messaging.NewOutbox(),
		presenter: &ui.Recorder{},
	}
	if sender == nil {
		sender = f.outbox
	}
	f.orch = New(Deps{
		Store:     store,
		Cart:      f.cart,
		Orders:    f.orders,
		Sequence:  f.seq,
		Forms:     f.forms,
		Sender:    sender,
		Channel:   messaging.Channel{BaseURL: "https://wa.me", Recipient: "923152480364", IDs: messaging.NewFixedGenerator("msg-1", "msg-2", "msg-3")},
		Presenter: f.presenter,
		Clock:     testutil.NewStepClock(),
		Logger:    log,
	})
	return f
}

func customer() shop.Customer {
	return shop.Customer{
		Name:    "Ayesha Khan",
		Phone:   "03001234567",
		Email:   "ayesha@example.pk",
		Address: "12 Mall Road",
		City:    "Lahore",
		Notes:   "Call before delivery",
	}
}

func black() shop.LineItem {
	return shop.LineItem{ID: "black", Name: "Black Abaya", Price: 2500, Image: "images/black.jpg"}
}

func TestOpen_EmptyCartReservesNothing(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), nil)
	ctx := context.Background()

	_, err := f.orch.Open(ctx)
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, int64(0), f.seq.Last(ctx))
	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, []string{MsgCartEmpty}, f.presenter.Messages())
}

func TestOpen_ReservesOncePerAttempt(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	f.cart.Add(ctx, black())

	s, err := f.orch.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AHL-00001", s.OrderNumber)
	assert.Equal(t, []string{"Black Abaya x2 - ₨ 5,000"}, s.Lines)
	assert.Equal(t, shop.Totals{ItemCount: 2, Amount: 5000}, s.Totals)
	assert.Equal(t, StateSummaryShown, f.orch.State())
	require.NotNil(t, f.presenter.Summary)

	again, err := f.orch.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AHL-00001", again.OrderNumber)

	// Abandoning consumes the number.
	f.orch.Close()
	assert.Equal(t, StateIdle, f.orch.State())
	s, err = f.orch.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AHL-00002", s.OrderNumber)
}

func TestSubmit_Completes(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	f.cart.Add(ctx, black())
	f.cart.Add(ctx, shop.LineItem{ID: "maroon", Name: "Maroon Abaya", Price: 2500})
	before := f.cart.Items()

	_, err := f.orch.Open(ctx)
	require.NoError(t, err)

	res, err := f.orch.Submit(ctx, customer())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, f.orch.State())
	assert.Empty(t, f.orch.Reserved())
	assert.False(t, res.Duplicate)

	// Cart cleared, journal grew by one with the pre-checkout items.
	assert.Equal(t, 0, f.cart.Len())
	require.Equal(t, 1, f.orders.Len())
	placed := f.orders.List()[0]
	assert.Equal(t, before, placed.Items)
	assert.Equal(t, shop.Order{
		Number:   "AHL-00001",
		Customer: customer(),
		Items:    before,
		Total:    7500,
		Date:     "1/15/2026, 10:30:00 AM",
		Status:   shop.OrderPending,
	}, placed)
	assert.Equal(t, placed, res.Order)

	// Durable state agrees.
	reloaded := journal.LoadOrders(ctx, f.store, testutil.DiscardLogger())
	assert.Equal(t, f.orders.List(), reloaded.List())
	assert.Equal(t, 0, cart.Load(ctx, f.store, testutil.DiscardLogger()).Len())

	// Message handed off with the confirmation text.
	sent := f.outbox.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, messaging.KindOrder, sent[0].Kind)
	assert.Equal(t, messaging.OrderConfirmation(placed), sent[0].Text)
	assert.Equal(t, messaging.Link("https://wa.me", "923152480364", sent[0].Text), sent[0].URL)
	assert.Equal(t, messaging.Receipt{MessageID: "msg-1", Status: messaging.StatusSent}, res.Receipt)

	assert.Equal(t, []string{"AHL-00001"}, f.presenter.Placed)
	assert.Equal(t, int64(1), f.presenter.TotalOrders)
	assert.Contains(t, f.presenter.Messages(), MsgOrderPlaced)
}

func TestSubmit_LaterCartEditsDoNotReachOrder(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	_, err := f.orch.Open(ctx)
	require.NoError(t, err)
	_, err = f.orch.Submit(ctx, customer())
	require.NoError(t, err)

	f.cart.Add(ctx, black())
	f.cart.ChangeQuantity(ctx, "black", 4)

	assert.Equal(t, int64(1), f.orders.List()[0].Items[0].Quantity)
}

func TestSubmit_WithoutOpen(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())

	_, err := f.orch.Submit(ctx, customer())
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.Equal(t, 1, f.cart.Len())
	assert.Empty(t, f.outbox.Sent())
}

func TestSubmit_CartEmptiedAfterOpen(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	_, err := f.orch.Open(ctx)
	require.NoError(t, err)
	f.cart.Clear(ctx)

	_, err = f.orch.Submit(ctx, customer())
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, 0, f.orders.Len())
	assert.Empty(t, f.outbox.Sent())
}

func TestSubmit_CommitFailureLeavesCartUntouched(t *testing.T) {
	store := testutil.NewFailingStore(kv.NewMemory())
	f := newFixture(t, store, nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	before := f.cart.Items()

	_, err := f.orch.Open(ctx)
	require.NoError(t, err)

	// The order write succeeds inside the tx; the cart clear fails.
	store.FailKey(kv.KeyCart, true)
	_, err = f.orch.Submit(ctx, customer())
	require.ErrorIs(t, err, testutil.ErrInjected)
	assert.ErrorIs(t, err, ErrCommitFailed)

	assert.Equal(t, StateSummaryShown, f.orch.State())
	assert.Equal(t, "AHL-00001", f.orch.Reserved())
	assert.Equal(t, before, f.cart.Items())
	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, 0, journal.LoadOrders(ctx, store, testutil.DiscardLogger()).Len(), "order write rolled back")
	assert.Empty(t, f.outbox.Sent())
	assert.Contains(t, f.presenter.Messages(), MsgOrderFailed)

	// Retrying the same attempt uses the same number.
	store.FailKey(kv.KeyCart, false)
	res, err := f.orch.Submit(ctx, customer())
	require.NoError(t, err)
	assert.Equal(t, "AHL-00001", res.Order.Number)
	assert.Equal(t, 1, f.orders.Len())
	assert.Equal(t, int64(1), f.seq.Last(ctx))
}

func TestSubmit_IdempotentOnOrderNumber(t *testing.T) {
	store := kv.NewMemory()
	f := newFixture(t, store, nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())

	s, err := f.orch.Open(ctx)
	require.NoError(t, err)

	// A previous attempt with this number already reached the store.
	prior := shop.Order{Number: s.OrderNumber, Items: f.cart.Items(), Total: 2500, Status: shop.OrderPending}
	require.NoError(t, kv.SaveJSON(ctx, store, kv.KeyOrders, []shop.Order{prior}))

	res, err := f.orch.Submit(ctx, customer())
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, 0, f.cart.Len())
	assert.Equal(t, 1, journal.LoadOrders(ctx, store, testutil.DiscardLogger()).Len())
}

type panicStore struct {
	kv.Store
}

func (p panicStore) Update(ctx context.Context, fn func(tx kv.Tx) error) error {
	return p.Store.Update(ctx, func(tx kv.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		panic("disk on fire")
	})
}

func TestSubmit_PanicDuringCommitRecovers(t *testing.T) {
	mem := kv.NewMemory()
	f := newFixture(t, mem, nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	_, err := f.orch.Open(ctx)
	require.NoError(t, err)

	// Swap in a store that panics after staging both writes.
	f.orch.deps.Store = panicStore{Store: mem}
	_, err = f.orch.Submit(ctx, customer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")

	assert.Equal(t, StateSummaryShown, f.orch.State())
	assert.Equal(t, 1, f.cart.Len())
	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, 0, journal.LoadOrders(ctx, mem, testutil.DiscardLogger()).Len())
}

type failingSender struct{}

func (failingSender) Send(context.Context, messaging.Message) (messaging.Receipt, error) {
	return messaging.Receipt{}, errors.New("popup blocked")
}

func TestSubmit_HandOffFailureIsBestEffort(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), failingSender{})
	ctx := context.Background()
	f.cart.Add(ctx, black())
	_, err := f.orch.Open(ctx)
	require.NoError(t, err)

	_, err = f.orch.Submit(ctx, customer())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, f.orch.State())
	assert.Equal(t, 1, f.orders.Len())
}

// blockingSender holds Send until released.
type blockingSender struct {
	entered chan struct{}
	release chan struct{}
	inner   messaging.Sender
}

func (b *blockingSender) Send(ctx context.Context, msg messaging.Message) (messaging.Receipt, error) {
	close(b.entered)
	<-b.release
	return b.inner.Send(ctx, msg)
}

func TestSubmit_RejectsReentrantSubmit(t *testing.T) {
	outbox := messaging.NewOutbox()
	sender := &blockingSender{entered: make(chan struct{}), release: make(chan struct{}), inner: outbox}
	f := newFixture(t, kv.NewMemory(), sender)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	_, err := f.orch.Open(ctx)
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error {
		_, err := f.orch.Submit(ctx, customer())
		return err
	})

	<-sender.entered
	assert.Equal(t, StateSubmitting, f.orch.State())

	_, err = f.orch.Submit(ctx, customer())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	_, err = f.orch.Open(ctx)
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(sender.release)
	require.NoError(t, g.Wait())

	assert.Equal(t, StateCompleted, f.orch.State())
	assert.Len(t, outbox.Sent(), 1)
	assert.Equal(t, 1, f.orders.Len())
}

func TestSubmit_ConcurrentAttemptsPlaceOneOrder(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	_, err := f.orch.Open(ctx)
	require.NoError(t, err)

	const attempts = 8
	errs := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			_, errs[i] = f.orch.Submit(ctx, customer())
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, ErrSubmitInProgress) || errors.Is(err, ErrNotOpen), err)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, f.orders.Len())
	assert.Len(t, f.outbox.Sent(), 1)
}

func TestSubmit_AutosavesForm(t *testing.T) {
	f := newFixture(t, kv.NewMemory(), nil)
	ctx := context.Background()
	f.cart.Add(ctx, black())
	_, err := f.orch.Open(ctx)
	require.NoError(t, err)
	_, err = f.orch.Submit(ctx, customer())
	require.NoError(t, err)

	form, ok := f.forms.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, shop.FormOf(customer()), form)

	f.cart.Add(ctx, black())
	s, err := f.orch.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AHL-00002", s.OrderNumber)
	assert.Equal(t, form.Customer(), s.Prefill)
}

func TestFormStore_Clear(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	forms := NewFormStore(store, testutil.DiscardLogger())

	_, ok := forms.Load(ctx)
	assert.False(t, ok)

	forms.Save(ctx, shop.SavedCustomerForm{Name: "Sana"})
	got, ok := forms.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "Sana", got.Name)

	forms.Clear(ctx)
	_, ok = forms.Load(ctx)
	assert.False(t, ok)
}

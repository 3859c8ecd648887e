// Package app owns the storefront state. A Controller is created at process
// start, handles every UI event, and is torn down with Close.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/ahluxe/internal/cart"
	"github.com/roach88/ahluxe/internal/catalog"
	"github.com/roach88/ahluxe/internal/checkout"
	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/messaging"
	"github.com/roach88/ahluxe/internal/sequence"
	"github.com/roach88/ahluxe/internal/shop"
	"github.com/roach88/ahluxe/internal/support"
	"github.com/roach88/ahluxe/internal/ui"
	"github.com/roach88/ahluxe/internal/wishlist"
)

// Notification texts.
const (
	MsgAddedToCart         = "Added to cart!"
	MsgAddedToWishlist     = "Added to wishlist!"
	MsgRemovedFromWishlist = "Removed from wishlist"
	MsgSelectRating        = "Please select a rating"
	MsgReviewSubmitted     = "Review submitted!"
	MsgUnknownProduct      = "Product not found"
)

// Options configures a Controller.
type Options struct {
	Store     kv.Store
	Catalog   *catalog.Catalog
	Presenter ui.Presenter
	Sender    messaging.Sender
	Channel   messaging.Channel
	Clock     shop.Clock
	Logger    *slog.Logger

	SeedPolicy      journal.SeedPolicy
	ProcessingDelay time.Duration

	// AutoOpenDelay is the wait between the first cart item and the cart
	// view opening. Zero or negative opens it immediately.
	AutoOpenDelay time.Duration
}

// State is every ledger and journal the storefront reads and writes.
type State struct {
	Cart          *cart.Ledger
	Wishlist      *wishlist.Ledger
	Orders        *journal.Orders
	Reviews       *journal.Reviews
	Sequence      *sequence.Generator
	Forms         *checkout.FormStore
	Cancellations *journal.List[shop.CancellationRequest]
	Contacts      *journal.List[shop.ContactMessage]
}

// Controller dispatches UI events against State.
type Controller struct {
	opts     Options
	state    *State
	checkout *checkout.Orchestrator
	desk     *support.Desk

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	wg      sync.WaitGroup
	closed  bool
}

// New loads State from opts.Store and wires the checkout and support flows.
func New(ctx context.Context, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = shop.SystemClock{}
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.SeedPolicy == "" {
		opts.SeedPolicy = journal.SeedDefaults
	}

	logger := opts.Logger
	state := &State{
		Cart:          cart.Load(ctx, opts.Store, logger.With("component", "cart")),
		Wishlist:      wishlist.Load(ctx, opts.Store, logger.With("component", "wishlist")),
		Orders:        journal.LoadOrders(ctx, opts.Store, logger.With("component", "orders")),
		Reviews:       journal.LoadReviews(ctx, opts.Store, opts.SeedPolicy, opts.Clock, logger.With("component", "reviews")),
		Sequence:      sequence.New(opts.Store, logger.With("component", "sequence")),
		Forms:         checkout.NewFormStore(opts.Store, logger.With("component", "form")),
		Cancellations: journal.LoadCancellations(ctx, opts.Store, logger.With("component", "cancellations")),
		Contacts:      journal.LoadContacts(ctx, opts.Store, logger.With("component", "contacts")),
	}

	c := &Controller{
		opts:    opts,
		state:   state,
		pending: make(map[*time.Timer]struct{}),
	}
	c.checkout = checkout.New(checkout.Deps{
		Store:           opts.Store,
		Cart:            state.Cart,
		Orders:          state.Orders,
		Sequence:        state.Sequence,
		Forms:           state.Forms,
		Sender:          opts.Sender,
		Channel:         opts.Channel,
		Presenter:       opts.Presenter,
		Clock:           opts.Clock,
		Logger:          logger.With("component", "checkout"),
		ProcessingDelay: opts.ProcessingDelay,
	})
	c.desk = &support.Desk{
		Cancellations: state.Cancellations,
		Contacts:      state.Contacts,
		Sender:        opts.Sender,
		Channel:       opts.Channel,
		Notifier:      opts.Presenter,
		Clock:         opts.Clock,
		Logger:        logger.With("component", "support"),
	}
	return c
}

// State returns the controller's state.
func (c *Controller) State() *State { return c.state }

// Catalog returns the product catalog.
func (c *Controller) Catalog() *catalog.Catalog { return c.opts.Catalog }

// Render pushes every view to the presenter.
func (c *Controller) Render(ctx context.Context) {
	c.ShowCart()
	c.ShowWishlist()
	c.ShowOrders(ctx)
	c.ShowReviews()
}

func (c *Controller) ShowCart() { c.renderCart() }

func (c *Controller) ShowWishlist() {
	c.opts.Presenter.RenderWishlist(c.state.Wishlist.IDs())
}

// ShowOrders renders the order history newest first and the total orders
// counter.
func (c *Controller) ShowOrders(ctx context.Context) {
	c.opts.Presenter.RenderOrders(c.state.Orders.Newest())
	c.opts.Presenter.RenderTotalOrders(c.state.Sequence.Last(ctx))
}

func (c *Controller) ShowReviews() {
	c.opts.Presenter.RenderReviews(c.state.Reviews.ListOrSeed())
}

// AddToCart adds one unit of a catalog product.
func (c *Controller) AddToCart(ctx context.Context, productID string) (cart.AddResult, error) {
	product, err := c.opts.Catalog.Product(productID)
	if err != nil {
		c.opts.Presenter.Notify(ui.LevelError, MsgUnknownProduct)
		return cart.AddResult{}, err
	}

	res := c.state.Cart.Add(ctx, product.LineItem())
	c.renderCart()
	c.opts.Presenter.Notify(ui.LevelSuccess, MsgAddedToCart)
	if res.FirstItem {
		c.scheduleOpen()
	}
	return res, nil
}

// ChangeQuantity adjusts an item's quantity. Absent ids are ignored.
func (c *Controller) ChangeQuantity(ctx context.Context, id string, delta int64) bool {
	ok := c.state.Cart.ChangeQuantity(ctx, id, delta)
	c.renderCart()
	return ok
}

// RemoveFromCart removes an item. Absent ids are ignored.
func (c *Controller) RemoveFromCart(ctx context.Context, id string) bool {
	ok := c.state.Cart.Remove(ctx, id)
	c.renderCart()
	return ok
}

// ClearCart empties the cart. Confirmation is the caller's concern.
func (c *Controller) ClearCart(ctx context.Context) {
	c.state.Cart.Clear(ctx)
	c.renderCart()
}

// ToggleWishlist flips membership of id.
func (c *Controller) ToggleWishlist(ctx context.Context, id string) wishlist.Outcome {
	out := c.state.Wishlist.Toggle(ctx, id)
	switch out {
	case wishlist.Added:
		c.opts.Presenter.Notify(ui.LevelSuccess, MsgAddedToWishlist)
	case wishlist.Removed:
		c.opts.Presenter.Notify(ui.LevelInfo, MsgRemovedFromWishlist)
	}
	c.ShowWishlist()
	return out
}

// RemoveFromWishlist drops id if present.
func (c *Controller) RemoveFromWishlist(ctx context.Context, id string) {
	c.state.Wishlist.Remove(ctx, id)
	c.ShowWishlist()
}

// SubmitReview validates and stores a review, then re-renders the list.
func (c *Controller) SubmitReview(ctx context.Context, in journal.ReviewInput) ([]shop.Review, error) {
	reviews, err := c.state.Reviews.Submit(ctx, in)
	if err != nil {
		if errors.Is(err, journal.ErrInvalidRating) {
			c.opts.Presenter.Notify(ui.LevelError, MsgSelectRating)
		}
		return nil, err
	}
	c.opts.Presenter.RenderReviews(reviews)
	c.opts.Presenter.Notify(ui.LevelSuccess, MsgReviewSubmitted)
	return reviews, nil
}

// OpenCheckout shows the checkout summary.
func (c *Controller) OpenCheckout(ctx context.Context) (ui.Summary, error) {
	return c.checkout.Open(ctx)
}

// CloseCheckout dismisses the checkout summary.
func (c *Controller) CloseCheckout() {
	c.checkout.Close()
}

// PlaceOrder submits the open checkout and re-renders the orders view.
func (c *Controller) PlaceOrder(ctx context.Context, customer shop.Customer) (checkout.Result, error) {
	res, err := c.checkout.Submit(ctx, customer)
	if err != nil {
		return res, err
	}
	c.opts.Presenter.RenderOrders(c.state.Orders.Newest())
	return res, nil
}

// Checkout opens the summary and submits it in one step.
func (c *Controller) Checkout(ctx context.Context, customer shop.Customer) (checkout.Result, error) {
	if _, err := c.OpenCheckout(ctx); err != nil {
		return checkout.Result{}, err
	}
	res, err := c.PlaceOrder(ctx, customer)
	if err != nil {
		return res, fmt.Errorf("place order: %w", err)
	}
	return res, nil
}

// CheckoutState returns the orchestrator state.
func (c *Controller) CheckoutState() checkout.State {
	return c.checkout.State()
}

// RequestCancellation sends a cancellation request for an order.
func (c *Controller) RequestCancellation(ctx context.Context, in support.CancelRequest) (shop.CancellationRequest, messaging.Message, error) {
	return c.desk.RequestCancellation(ctx, in)
}

// SendContact sends a contact message.
func (c *Controller) SendContact(ctx context.Context, in support.ContactForm) (shop.ContactMessage, messaging.Message, error) {
	return c.desk.SendContact(ctx, in)
}

// Wait blocks until every scheduled cart open has fired.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels pending cart opens. The store is owned by the caller.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for t := range c.pending {
		if t.Stop() {
			c.wg.Done()
		}
		delete(c.pending, t)
	}
}

func (c *Controller) renderCart() {
	c.opts.Presenter.RenderCart(c.state.Cart.Items(), c.state.Cart.Totals())
}

func (c *Controller) scheduleOpen() {
	if c.opts.AutoOpenDelay <= 0 {
		c.opts.Presenter.OpenCart()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(c.opts.AutoOpenDelay, func() {
		defer c.wg.Done()
		c.mu.Lock()
		delete(c.pending, t)
		c.mu.Unlock()
		c.opts.Presenter.OpenCart()
	})
	c.pending[t] = struct{}{}
}

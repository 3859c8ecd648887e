package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/ahluxe/internal/cart"
	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/messaging"
	"github.com/roach88/ahluxe/internal/sequence"
	"github.com/roach88/ahluxe/internal/shop"
	"github.com/roach88/ahluxe/internal/ui"
)

// State is a checkout state.
type State string

const (
	StateIdle         State = "idle"
	StateSummaryShown State = "summary_shown"
	StateSubmitting   State = "submitting"
	StateCompleted    State = "completed"
)

var (
	// ErrCartEmpty is returned when checkout is opened or submitted with an
	// empty cart. No order number is reserved and nothing is written.
	ErrCartEmpty = errors.New("checkout: cart is empty")

	// ErrSubmitInProgress is returned for a Submit (or Open) while another
	// Submit is running.
	ErrSubmitInProgress = errors.New("checkout: submission already in progress")

	// ErrNotOpen is returned by Submit when no summary is shown.
	ErrNotOpen = errors.New("checkout: summary not shown")

	// ErrCommitFailed is returned when the order and cart could not be
	// written together. Nothing was applied.
	ErrCommitFailed = errors.New("checkout: commit failed")
)

// Notification texts.
const (
	MsgCartEmpty   = "Cart is empty!"
	MsgOrderPlaced = "Order placed!"
	MsgOrderFailed = "Could not place order, please try again"
)

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Store     kv.Store
	Cart      *cart.Ledger
	Orders    *journal.Orders
	Sequence  *sequence.Generator
	Forms     *FormStore
	Sender    messaging.Sender
	Channel   messaging.Channel
	Presenter ui.Presenter
	Clock     shop.Clock
	Logger    *slog.Logger

	// ProcessingDelay holds Submit in the Submitting state before the
	// commit. It only drives a loading indicator; zero is fine.
	ProcessingDelay time.Duration
}

// Result describes a completed checkout.
type Result struct {
	Order   shop.Order        `json:"order"`
	Message messaging.Message `json:"message"`
	Receipt messaging.Receipt `json:"receipt"`
	// Duplicate is true when the journal already held this order number and
	// the commit only cleared the cart.
	Duplicate bool `json:"duplicate,omitempty"`
}

// Orchestrator drives one checkout at a time.
type Orchestrator struct {
	deps Deps

	mu         sync.Mutex
	state      State
	reserved   string
	processing bool
}

// New creates an orchestrator in StateIdle.
func New(deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = shop.SystemClock{}
	}
	return &Orchestrator{deps: deps, state: StateIdle}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Reserved returns the order number reserved for the open attempt, or "".
func (o *Orchestrator) Reserved() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reserved
}

// Open shows the checkout summary.
//
// The first Open of an attempt reserves an order number. Opening again while
// the summary is shown refreshes the summary and keeps the number.
func (o *Orchestrator) Open(ctx context.Context) (ui.Summary, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.processing {
		return ui.Summary{}, ErrSubmitInProgress
	}

	items := o.deps.Cart.Items()
	if len(items) == 0 {
		o.state = StateIdle
		o.reserved = ""
		o.deps.Presenter.Notify(ui.LevelError, MsgCartEmpty)
		return ui.Summary{}, ErrCartEmpty
	}

	if o.state != StateSummaryShown || o.reserved == "" {
		o.reserved = o.deps.Sequence.Next(ctx)
		o.deps.Logger.Debug("order number reserved", "order", o.reserved)
	}
	o.state = StateSummaryShown

	summary := ui.Summary{
		OrderNumber: o.reserved,
		Lines:       ui.SummaryLines(items),
		Totals:      shop.TotalsOf(items),
	}
	if o.deps.Forms != nil {
		if form, ok := o.deps.Forms.Load(ctx); ok {
			summary.Prefill = form.Customer()
		}
	}
	o.deps.Presenter.RenderCheckoutSummary(summary)
	return summary, nil
}

// Close dismisses the summary. A reserved number is consumed, not returned.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.processing {
		return
	}
	if o.reserved != "" {
		o.deps.Logger.Debug("checkout closed, number consumed", "order", o.reserved)
	}
	o.state = StateIdle
	o.reserved = ""
}

// Submit places the order for the shown summary with the given customer
// fields. Fields are captured verbatim.
func (o *Orchestrator) Submit(ctx context.Context, customer shop.Customer) (Result, error) {
	o.mu.Lock()
	if o.processing {
		o.mu.Unlock()
		return Result{}, ErrSubmitInProgress
	}
	if o.state != StateSummaryShown || o.reserved == "" {
		o.mu.Unlock()
		return Result{}, ErrNotOpen
	}
	o.processing = true
	o.state = StateSubmitting
	number := o.reserved
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.processing = false
		o.mu.Unlock()
	}()

	if o.deps.ProcessingDelay > 0 {
		time.Sleep(o.deps.ProcessingDelay)
	}

	items := o.deps.Cart.Items()
	if len(items) == 0 {
		o.transition(StateIdle, "")
		o.deps.Presenter.Notify(ui.LevelError, MsgCartEmpty)
		return Result{}, ErrCartEmpty
	}

	order := shop.Order{
		Number:   number,
		Customer: customer,
		Items:    items,
		Total:    shop.TotalsOf(items).Amount,
		Date:     shop.FormatOrderDate(o.deps.Clock.Now()),
		Status:   shop.OrderPending,
	}

	duplicate, err := o.commit(ctx, order)
	if err != nil {
		o.transition(StateSummaryShown, number)
		o.deps.Logger.Error("order commit failed", "order", number, "error", err)
		o.deps.Presenter.Notify(ui.LevelError, MsgOrderFailed)
		return Result{}, fmt.Errorf("%w: %s: %w", ErrCommitFailed, number, err)
	}
	o.deps.Logger.Info("order committed", "order", number, "total", order.Total, "duplicate", duplicate)

	if o.deps.Forms != nil {
		o.deps.Forms.Save(ctx, shop.FormOf(customer))
	}

	msg := o.deps.Channel.Compose(messaging.KindOrder, messaging.OrderConfirmation(order))
	receipt, err := o.deps.Sender.Send(ctx, msg)
	if err != nil {
		// Best effort: the order is already committed.
		o.deps.Logger.Warn("order message not handed off", "order", number, "error", err)
	}

	o.transition(StateCompleted, "")

	o.deps.Presenter.RenderCart(nil, shop.Totals{})
	o.deps.Presenter.RenderOrderPlaced(number)
	o.deps.Presenter.RenderTotalOrders(o.deps.Sequence.Last(ctx))
	o.deps.Presenter.Notify(ui.LevelSuccess, MsgOrderPlaced)

	return Result{Order: order, Message: msg, Receipt: receipt, Duplicate: duplicate}, nil
}

// commit appends order and clears the cart in one transaction. Memory is
// updated only after the transaction commits. A panic while building or
// writing is reported as an error with nothing applied.
func (o *Orchestrator) commit(ctx context.Context, order shop.Order) (duplicate bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during commit: %v", r)
		}
	}()

	var commitOrder, commitCart func()
	err = o.deps.Store.Update(ctx, func(tx kv.Tx) error {
		var err error
		commitOrder, duplicate, err = o.deps.Orders.StageAppend(ctx, tx, order)
		if err != nil {
			return err
		}
		commitCart, err = o.deps.Cart.StageClear(ctx, tx)
		return err
	})
	if err != nil {
		return false, err
	}

	commitOrder()
	commitCart()
	return duplicate, nil
}

func (o *Orchestrator) transition(to State, reserved string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deps.Logger.Debug("checkout transition", "from", o.state, "state", to)
	o.state = to
	o.reserved = reserved
}

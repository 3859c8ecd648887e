package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/ahluxe/internal/app"
	"github.com/roach88/ahluxe/internal/catalog"
	"github.com/roach88/ahluxe/internal/checkout"
	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/messaging"
	"github.com/roach88/ahluxe/internal/shop"
	"github.com/roach88/ahluxe/internal/support"
	"github.com/roach88/ahluxe/internal/testutil"
	"github.com/roach88/ahluxe/internal/ui"
)

// Default chat endpoint for scenario messages.
const (
	BaseURL   = "https://wa.me"
	Recipient = "923152480364"
)

// Harness executes one scenario against a fresh controller.
type Harness struct {
	store     *kv.Memory
	ctrl      *app.Controller
	outbox    *messaging.Outbox
	presenter *ui.Recorder
}

// New creates a harness with an empty in-memory store, a StepClock and
// sequential message ids.
func New(ctx context.Context, seed journal.SeedPolicy) *Harness {
	h := &Harness{
		store:     kv.NewMemory(),
		outbox:    messaging.NewOutbox(),
		presenter: &ui.Recorder{},
	}
	h.ctrl = app.New(ctx, app.Options{
		Store:     h.store,
		Catalog:   catalog.Default(),
		Presenter: h.presenter,
		Sender:    h.outbox,
		Channel: messaging.Channel{
			BaseURL:   BaseURL,
			Recipient: Recipient,
			IDs:       testutil.NewSequentialIDs("msg"),
		},
		Clock:      testutil.NewStepClock(),
		Logger:     testutil.DiscardLogger(), // Suppress logs in tests
		SeedPolicy: seed,
	})
	return h
}

// Run executes a scenario and returns the result. Expect mismatches and
// assertion failures are reported in Result.Errors, not as an error.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	h := New(ctx, scenario.Seed)
	defer h.ctrl.Close()

	result := NewResult()
	for i, step := range scenario.Flow {
		outcome, fields, err := h.execute(ctx, step)
		ev := TraceEvent{
			Seq:     int64(i + 1),
			Event:   step.Event,
			Args:    step.Args,
			Outcome: outcome,
			Result:  fields,
		}
		if err != nil {
			ev.Outcome = ""
			ev.Error = ErrorKind(err)
		}
		result.AddTrace(ev)

		if msg := checkExpect(i, step, ev); msg != "" {
			result.AddError(msg)
		}
	}

	h.ctrl.Wait()
	result.State = h.State(ctx)

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// Controller exposes the controller under test.
func (h *Harness) Controller() *app.Controller { return h.ctrl }

func (h *Harness) execute(ctx context.Context, step FlowStep) (string, map[string]any, error) {
	a := args(step.Args)
	c := h.ctrl

	switch step.Event {
	case "cart.add":
		res, err := c.AddToCart(ctx, a.str("product"))
		if err != nil {
			return "", nil, err
		}
		return string(res.Outcome), map[string]any{"quantity": res.Quantity}, nil

	case "cart.qty":
		return found(c.ChangeQuantity(ctx, a.str("product"), a.int("delta")), "changed"), nil, nil

	case "cart.remove":
		return found(c.RemoveFromCart(ctx, a.str("product")), "removed"), nil, nil

	case "cart.clear":
		c.ClearCart(ctx)
		return "cleared", nil, nil

	case "wishlist.toggle":
		return string(c.ToggleWishlist(ctx, a.str("product"))), nil, nil

	case "wishlist.remove":
		c.RemoveFromWishlist(ctx, a.str("product"))
		return "removed", nil, nil

	case "review.submit":
		reviews, err := c.SubmitReview(ctx, journal.ReviewInput{
			Name:    a.str("name"),
			Rating:  int(a.int("rating")),
			Product: a.str("product"),
			Text:    a.str("text"),
		})
		if err != nil {
			return "", nil, err
		}
		return "submitted", map[string]any{"count": len(reviews)}, nil

	case "checkout.open":
		summary, err := c.OpenCheckout(ctx)
		if err != nil {
			return "", nil, err
		}
		return "shown", map[string]any{"order": summary.OrderNumber, "amount": summary.Totals.Amount}, nil

	case "checkout.close":
		c.CloseCheckout()
		return "closed", nil, nil

	case "checkout.submit":
		res, err := c.PlaceOrder(ctx, shop.Customer{
			Name:    a.str("name"),
			Phone:   a.str("phone"),
			Email:   a.str("email"),
			Address: a.str("address"),
			City:    a.str("city"),
			Postal:  a.str("postal"),
			Notes:   a.str("notes"),
		})
		if err != nil {
			return "", nil, err
		}
		return "placed", map[string]any{"order": res.Order.Number, "total": res.Order.Total}, nil

	case "cancel":
		req, _, err := c.RequestCancellation(ctx, support.CancelRequest{
			OrderNumber: a.str("order"),
			Phone:       a.str("phone"),
			Reason:      a.str("reason"),
		})
		if err != nil {
			return "", nil, err
		}
		return "sent", map[string]any{"order": req.OrderNumber, "status": string(req.Status)}, nil

	case "contact":
		_, _, err := c.SendContact(ctx, support.ContactForm{
			Name:    a.str("name"),
			Email:   a.str("email"),
			Message: a.str("message"),
		})
		if err != nil {
			return "", nil, err
		}
		return "sent", nil, nil
	}

	return "", nil, fmt.Errorf("unknown event %q", step.Event)
}

// State snapshots the storefront for final_state assertions and golden files.
func (h *Harness) State(ctx context.Context) map[string]map[string]any {
	st := h.ctrl.State()

	items := st.Cart.Items()
	totals := st.Cart.Totals()

	numbers := []string{}
	for _, o := range st.Orders.Newest() {
		numbers = append(numbers, o.Number)
	}

	kinds := []string{}
	for _, m := range h.outbox.Sent() {
		kinds = append(kinds, string(m.Kind))
	}

	ids := st.Wishlist.IDs()
	if ids == nil {
		ids = []string{}
	}
	notes := h.presenter.Messages()

	return map[string]map[string]any{
		"cart": {
			"item_count": totals.ItemCount,
			"amount":     totals.Amount,
			"lines":      ui.SummaryLines(items),
		},
		"wishlist": {"ids": ids},
		"orders": {
			"count":   st.Orders.Len(),
			"numbers": numbers,
		},
		"reviews": {
			"count":     len(st.Reviews.ListOrSeed()),
			"persisted": len(st.Reviews.Persisted()),
			"seeded":    st.Reviews.Seeded(),
		},
		"sequence": {"last": st.Sequence.Last(ctx)},
		"messages": {
			"count": len(kinds),
			"kinds": kinds,
		},
		"support": {
			"cancellations": st.Cancellations.Len(),
			"contacts":      st.Contacts.Len(),
		},
		"notifications": {"messages": notes},
	}
}

// ErrorKind names a rejection for expect clauses and traces.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, checkout.ErrCartEmpty):
		return "cart_empty"
	case errors.Is(err, checkout.ErrSubmitInProgress):
		return "in_progress"
	case errors.Is(err, checkout.ErrNotOpen):
		return "not_open"
	case errors.Is(err, checkout.ErrCommitFailed):
		return "commit_failed"
	case errors.Is(err, journal.ErrInvalidRating):
		return "invalid_rating"
	case errors.Is(err, support.ErrMissingField):
		return "missing_field"
	case errors.Is(err, catalog.ErrUnknownProduct):
		return "unknown_product"
	default:
		return "error"
	}
}

func checkExpect(i int, step FlowStep, ev TraceEvent) string {
	e := step.Expect
	if e == nil {
		return ""
	}
	if e.Error != "" {
		if ev.Error != e.Error {
			return fmt.Sprintf("flow[%d] %s: expected error %q, got %s", i, step.Event, e.Error, describe(ev))
		}
		return ""
	}
	if ev.Error != "" || ev.Outcome != e.Outcome {
		return fmt.Sprintf("flow[%d] %s: expected outcome %q, got %s", i, step.Event, e.Outcome, describe(ev))
	}
	if key, ok := matchSubset(ev.Result, e.Result); !ok {
		return fmt.Sprintf("flow[%d] %s: result field %q: expected %v, got %v", i, step.Event, key, e.Result[key], ev.Result[key])
	}
	return ""
}

func describe(ev TraceEvent) string {
	if ev.Error != "" {
		return "error " + ev.Error
	}
	return "outcome " + ev.Outcome
}

func found(ok bool, outcome string) string {
	if ok {
		return outcome
	}
	return "ignored"
}

type args map[string]any

func (a args) str(key string) string {
	if v, ok := a[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

func (a args) int(key string) int64 {
	switch v := a[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

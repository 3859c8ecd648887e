package ui

import (
	"sync"

	"github.com/roach88/ahluxe/internal/shop"
)

// Notification is one recorded Notify call.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Recorder is a Presenter that keeps the last rendered state and every
// notification. Tests assert against it.
type Recorder struct {
	mu sync.Mutex

	Notifications []Notification
	Cart          []shop.LineItem
	CartTotals    shop.Totals
	Wishlist      []string
	Orders        []shop.Order
	Reviews       []shop.Review
	Summary       *Summary
	Placed        []string
	TotalOrders   int64
	CartOpens     int
}

var _ Presenter = (*Recorder)(nil)

func (r *Recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = append(r.Notifications, Notification{Level: level, Message: msg})
}

func (r *Recorder) RenderCart(items []shop.LineItem, totals shop.Totals) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cart = shop.CloneItems(items)
	r.CartTotals = totals
}

func (r *Recorder) RenderWishlist(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Wishlist = append([]string(nil), ids...)
}

func (r *Recorder) RenderOrders(orders []shop.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Orders = append([]shop.Order(nil), orders...)
}

func (r *Recorder) RenderReviews(reviews []shop.Review) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reviews = append([]shop.Review(nil), reviews...)
}

func (r *Recorder) RenderCheckoutSummary(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Summary = &s
}

func (r *Recorder) RenderOrderPlaced(number string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Placed = append(r.Placed, number)
}

func (r *Recorder) RenderTotalOrders(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TotalOrders = n
}

func (r *Recorder) OpenCart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CartOpens++
}

// Messages returns the notification texts in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Notifications))
	for i, n := range r.Notifications {
		out[i] = n.Message
	}
	return out
}

// Notified returns a copy of every notification in order.
func (r *Recorder) Notified() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.Notifications...)
}

// Opens returns how many times the cart view was opened.
func (r *Recorder) Opens() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.CartOpens
}

// Package ui is the presentation adapter. The core emits data through
// Presenter and never reaches into a view tree; a renderer decides how the
// data looks.
package ui

import "github.com/roach88/ahluxe/internal/shop"

// Level classifies a notification toast.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows transient notifications.
type Notifier interface {
	Notify(level Level, msg string)
}

// Summary is the checkout summary shown before submission.
type Summary struct {
	OrderNumber string
	Lines       []string
	Totals      shop.Totals
	Prefill     shop.Customer
}

// Presenter renders storefront state.
type Presenter interface {
	Notifier

	RenderCart(items []shop.LineItem, totals shop.Totals)
	RenderWishlist(ids []string)
	RenderOrders(newestFirst []shop.Order)
	RenderReviews(reviews []shop.Review)
	RenderCheckoutSummary(s Summary)
	RenderOrderPlaced(number string)
	RenderTotalOrders(n int64)
	OpenCart()
}

// SummaryLine renders one checkout summary row, e.g. "Black Abaya x2 - ₨ 5,000".
func SummaryLine(it shop.LineItem) string {
	return it.Name + " x" + shop.GroupAmount(it.Quantity) + " - " + shop.FormatAmount(it.Subtotal())
}

// SummaryLines renders every row of items.
func SummaryLines(items []shop.LineItem) []string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = SummaryLine(it)
	}
	return lines
}

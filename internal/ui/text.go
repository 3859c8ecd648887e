package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/ahluxe/internal/shop"
)

// Text renders to a plain-text writer, one block per call.
type Text struct {
	W io.Writer
}

var _ Presenter = Text{}

func (t Text) Notify(level Level, msg string) {
	fmt.Fprintf(t.W, "[%s] %s\n", level, msg)
}

func (t Text) RenderCart(items []shop.LineItem, totals shop.Totals) {
	if len(items) == 0 {
		fmt.Fprintln(t.W, "Your cart is empty")
		fmt.Fprintf(t.W, "Total: %s\n", shop.FormatAmount(0))
		return
	}
	for _, it := range items {
		fmt.Fprintf(t.W, "%-10s %-24s %s x%d\n", it.ID, it.Name, shop.FormatAmount(it.Price), it.Quantity)
	}
	fmt.Fprintf(t.W, "Total: %s (%d items)\n", shop.FormatAmount(totals.Amount), totals.ItemCount)
}

func (t Text) RenderWishlist(ids []string) {
	if len(ids) == 0 {
		fmt.Fprintln(t.W, "Your wishlist is empty")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(t.W, "♥ %s\n", id)
	}
}

func (t Text) RenderOrders(orders []shop.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(t.W, "No orders yet")
		return
	}
	for _, o := range orders {
		fmt.Fprintf(t.W, "%s  %s  %s  %s\n", o.Number, o.Date, o.Status, shop.FormatAmount(o.Total))
		for _, line := range SummaryLines(o.Items) {
			fmt.Fprintf(t.W, "    %s\n", line)
		}
	}
}

func (t Text) RenderReviews(reviews []shop.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(t.W, "No reviews yet")
		return
	}
	for _, r := range reviews {
		badge := ""
		if r.Verified {
			badge = " (verified)"
		}
		stars := min(max(r.Rating, 0), 5)
		fmt.Fprintf(t.W, "%s%s %s%s [%s]\n", strings.Repeat("★", stars), strings.Repeat("☆", 5-stars), r.Name, badge, r.Product)
		if r.Text != "" {
			fmt.Fprintf(t.W, "    %s\n", r.Text)
		}
	}
}

func (t Text) RenderCheckoutSummary(s Summary) {
	fmt.Fprintf(t.W, "Order %s\n", s.OrderNumber)
	for _, line := range s.Lines {
		fmt.Fprintln(t.W, line)
	}
	fmt.Fprintf(t.W, "Total: %s\n", shop.FormatAmount(s.Totals.Amount))
}

func (t Text) RenderOrderPlaced(number string) {
	fmt.Fprintf(t.W, "Order %s placed\n", number)
}

func (t Text) RenderTotalOrders(n int64) {
	fmt.Fprintf(t.W, "Total orders: %s\n", shop.GroupAmount(n))
}

func (t Text) OpenCart() {
	fmt.Fprintln(t.W, "Cart opened")
}

package messaging

import (
	"fmt"
	"strings"

	"github.com/roach88/ahluxe/internal/shop"
)

// OrderConfirmation renders the new-order message sent at checkout.
func OrderConfirmation(o shop.Order) string {
	var items strings.Builder
	for i, it := range o.Items {
		fmt.Fprintf(&items, "%d. %s (%s) x%d = %s %d\n", i+1, it.Name, it.ID, it.Quantity, shop.CurrencySymbol, it.Subtotal())
	}

	c := o.Customer
	return "🛍️ NEW ORDER - AH LUXE OFFICIAL\n" +
		"\n" +
		"📋 Order: " + o.Number + "\n" +
		"\n" +
		"👤 " + c.Name + "\n" +
		"📞 " + c.Phone + "\n" +
		"📧 " + orDefault(c.Email, "N/A") + "\n" +
		"\n" +
		"📍 " + c.Address + ", " + c.City + "\n" +
		"\n" +
		"📦 ORDER:\n" +
		items.String() + "\n" +
		"\n" +
		fmt.Sprintf("💰 TOTAL: %s %d\n", shop.CurrencySymbol, o.Total) +
		"\n" +
		"📝 " + orDefault(c.Notes, "No notes") + "\n" +
		"\n" +
		"🚚 FREE DELIVERY"
}

// CancellationRequest renders the cancellation message.
func CancellationRequest(r shop.CancellationRequest) string {
	return "❌ CANCELLATION REQUEST - AH LUXE\n" +
		"\n" +
		"Order: " + r.OrderNumber + "\n" +
		"Phone: " + r.Phone + "\n" +
		"Reason: " + orDefault(r.Reason, "Not specified")
}

// ContactMessage renders a message from the contact form.
func ContactMessage(m shop.ContactMessage) string {
	return "📩 NEW MESSAGE - AH LUXE\n" +
		"\n" +
		"Name: " + m.Name + "\n" +
		"Email: " + orDefault(m.Email, "N/A") + "\n" +
		"\n" +
		m.Message
}

// orDefault mirrors the form semantics: an empty field falls back to def.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

package messaging

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ahluxe/internal/shop"
)

// To regenerate golden files, run:
//
//	go test ./internal/messaging -update
func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func sampleOrder() shop.Order {
	return shop.Order{
		Number: "AHL-00007",
		Customer: shop.Customer{
			Name:    "Ayesha Khan",
			Phone:   "03001234567",
			Email:   "ayesha@example.pk",
			Address: "12 Mall Road",
			City:    "Lahore",
			Notes:   "Call before delivery",
		},
		Items: []shop.LineItem{
			{ID: "black", Name: "Black Abaya", Price: 2500, Quantity: 2},
			{ID: "maroon", Name: "Maroon Abaya", Price: 2500, Quantity: 1},
		},
		Total:  7500,
		Date:   "1/15/2026, 10:30:00 AM",
		Status: shop.OrderPending,
	}
}

func TestOrderConfirmation_Golden(t *testing.T) {
	newGoldie(t).Assert(t, "order_confirmation", []byte(OrderConfirmation(sampleOrder())))
}

func TestOrderConfirmation_Defaults(t *testing.T) {
	o := sampleOrder()
	o.Customer.Email = ""
	o.Customer.Notes = ""
	newGoldie(t).Assert(t, "order_confirmation_defaults", []byte(OrderConfirmation(o)))
}

func TestOrderConfirmation_Deterministic(t *testing.T) {
	assert.Equal(t, OrderConfirmation(sampleOrder()), OrderConfirmation(sampleOrder()))
}

func TestCancellationRequest_Golden(t *testing.T) {
	msg := CancellationRequest(shop.CancellationRequest{
		OrderNumber: "AHL-00007",
		Phone:       "03001234567",
		Reason:      "Ordered the wrong size",
	})
	newGoldie(t).Assert(t, "cancellation_request", []byte(msg))
}

func TestCancellationRequest_NoReason(t *testing.T) {
	msg := CancellationRequest(shop.CancellationRequest{OrderNumber: "AHL-00007", Phone: "0300"})
	assert.True(t, strings.HasSuffix(msg, "Reason: Not specified"))
}

func TestContactMessage_Golden(t *testing.T) {
	msg := ContactMessage(shop.ContactMessage{
		Name:    "Sana",
		Email:   "sana@example.pk",
		Message: "Do you ship to Karachi?",
	})
	newGoldie(t).Assert(t, "contact_message", []byte(msg))
}

func TestLink_Golden(t *testing.T) {
	link := Link("https://wa.me", "923152480364", CancellationRequest(shop.CancellationRequest{
		OrderNumber: "AHL-00007",
		Phone:       "03001234567",
		Reason:      "Ordered the wrong size",
	}))
	newGoldie(t).Assert(t, "cancellation_link", []byte(link))
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abcXYZ019", "abcXYZ019"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"a b", "a%20b"},
		{"a+b&c=d", "a%2Bb%26c%3Dd"},
		{"line\nbreak", "line%0Abreak"},
		{"₨", "%E2%82%A8"},
		{"/?#", "%2F%3F%23"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeComponent(tt.in), tt.in)
	}
}

func TestLink_TrimsTrailingSlash(t *testing.T) {
	assert.Equal(t, "https://wa.me/92300?text=hi", Link("https://wa.me/", "92300", "hi"))
}

func TestChannel_Compose(t *testing.T) {
	ch := Channel{BaseURL: "https://wa.me", Recipient: "92300", IDs: NewFixedGenerator("msg-1")}
	msg := ch.Compose(KindContact, "hello there")

	assert.Equal(t, Message{
		ID:   "msg-1",
		Kind: KindContact,
		Text: "hello there",
		URL:  "https://wa.me/92300?text=hello%20there",
	}, msg)
}

func TestChannel_DefaultIDsAreUUIDv7(t *testing.T) {
	msg := Channel{BaseURL: "https://wa.me", Recipient: "92300"}.Compose(KindOrder, "x")
	assert.Len(t, msg.ID, 36)
	assert.Equal(t, byte('7'), msg.ID[14], "version nibble")
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	g := NewFixedGenerator("a")
	assert.Equal(t, "a", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestOutbox(t *testing.T) {
	o := NewOutbox()
	_, ok := o.Last()
	assert.False(t, ok)

	r, err := o.Send(context.Background(), Message{ID: "m1", Text: "a"})
	require.NoError(t, err)
	assert.Equal(t, Receipt{MessageID: "m1", Status: StatusSent}, r)
	_, _ = o.Send(context.Background(), Message{ID: "m2", Text: "b"})

	assert.Len(t, o.Sent(), 2)
	last, _ := o.Last()
	assert.Equal(t, "m2", last.ID)
}

func TestPrinter(t *testing.T) {
	var sb strings.Builder
	r, err := Printer{W: &sb}.Send(context.Background(), Message{ID: "m1", URL: "https://wa.me/1?text=x"})
	require.NoError(t, err)
	assert.Equal(t, StatusSent, r.Status)
	assert.Equal(t, "Open to send: https://wa.me/1?text=x\n", sb.String())
}

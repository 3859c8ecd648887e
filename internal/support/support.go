// Package support runs the cancellation-request and contact flows. Both
// record the request locally and hand a message to the chat channel; neither
// touches the order journal.
package support

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/messaging"
	"github.com/roach88/ahluxe/internal/shop"
	"github.com/roach88/ahluxe/internal/ui"
)

var (
	// ErrMissingField is returned when a required form field is blank.
	ErrMissingField = errors.New("support: required field missing")
)

// Notification texts.
const (
	MsgCancellationSent = "Cancellation request sent!"
	MsgContactSent      = "Message sent!"
)

// Desk owns both flows.
type Desk struct {
	Cancellations *journal.List[shop.CancellationRequest]
	Contacts      *journal.List[shop.ContactMessage]
	Sender        messaging.Sender
	Channel       messaging.Channel
	Notifier      ui.Notifier
	Clock         shop.Clock
	Logger        *slog.Logger
}

// CancelRequest is the cancellation form.
type CancelRequest struct {
	OrderNumber string
	Phone       string
	Reason      string
}

// RequestCancellation records and sends a cancellation request. The order
// itself stays in the journal unchanged; the shop handles it out-of-band.
func (d *Desk) RequestCancellation(ctx context.Context, in CancelRequest) (shop.CancellationRequest, messaging.Message, error) {
	if strings.TrimSpace(in.OrderNumber) == "" || strings.TrimSpace(in.Phone) == "" {
		return shop.CancellationRequest{}, messaging.Message{}, ErrMissingField
	}

	req := shop.CancellationRequest{
		OrderNumber: in.OrderNumber,
		Phone:       in.Phone,
		Reason:      in.Reason,
		Date:        shop.FormatOrderDate(d.now()),
		Status:      shop.RequestPending,
	}
	d.Cancellations.Append(ctx, req)

	msg := d.Channel.Compose(messaging.KindCancellation, messaging.CancellationRequest(req))
	d.send(ctx, msg)
	d.Notifier.Notify(ui.LevelSuccess, MsgCancellationSent)
	return req, msg, nil
}

// ContactForm is the contact form.
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// SendContact records and sends a contact message.
func (d *Desk) SendContact(ctx context.Context, in ContactForm) (shop.ContactMessage, messaging.Message, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Message) == "" {
		return shop.ContactMessage{}, messaging.Message{}, ErrMissingField
	}

	cm := shop.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
		Date:    shop.FormatOrderDate(d.now()),
	}
	d.Contacts.Append(ctx, cm)

	msg := d.Channel.Compose(messaging.KindContact, messaging.ContactMessage(cm))
	d.send(ctx, msg)
	d.Notifier.Notify(ui.LevelSuccess, MsgContactSent)
	return cm, msg, nil
}

func (d *Desk) send(ctx context.Context, msg messaging.Message) {
	if _, err := d.Sender.Send(ctx, msg); err != nil {
		d.logger().Warn("message not handed off", "kind", msg.Kind, "id", msg.ID, "error", err)
	}
}

func (d *Desk) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock.Now()
}

func (d *Desk) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

package messaging

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Kind identifies which template produced a message.
type Kind string

const (
	KindOrder        Kind = "order"
	KindCancellation Kind = "cancellation"
	KindContact      Kind = "contact"
)

// Status is the only delivery state the port can observe.
type Status string

const StatusSent Status = "sent"

// Message is one outbound hand-off.
type Message struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Receipt acknowledges that a message left this process.
type Receipt struct {
	MessageID string `json:"messageId"`
	Status    Status `json:"status"`
}

// Sender is the outbound-message port.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// IDGenerator produces message IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 message IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined IDs for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
//
// Panics if all IDs have been consumed, to catch a test that sends more
// messages than it expects.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Channel composes messages addressed to one chat recipient.
type Channel struct {
	BaseURL   string
	Recipient string
	IDs       IDGenerator
}

// Compose wraps text as a Message with its deep link.
func (c Channel) Compose(kind Kind, text string) Message {
	ids := c.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	return Message{
		ID:   ids.Generate(),
		Kind: kind,
		Text: text,
		URL:  Link(c.BaseURL, c.Recipient, text),
	}
}

// Outbox is a Sender that records every message. It never fails.
type Outbox struct {
	mu   sync.Mutex
	sent []Message
}

// NewOutbox returns an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Send(_ context.Context, msg Message) (Receipt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return Receipt{MessageID: msg.ID, Status: StatusSent}, nil
}

// Sent returns the recorded messages in send order.
func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Message, len(o.sent))
	copy(out, o.sent)
	return out
}

// Last returns the most recent message.
func (o *Outbox) Last() (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		return Message{}, false
	}
	return o.sent[len(o.sent)-1], true
}

// Printer is a Sender that writes the deep link for the user to open.
// It stands in for opening a new browsing context.
type Printer struct {
	W io.Writer
}

func (p Printer) Send(_ context.Context, msg Message) (Receipt, error) {
	if _, err := fmt.Fprintf(p.W, "Open to send: %s\n", msg.URL); err != nil {
		return Receipt{}, fmt.Errorf("print link: %w", err)
	}
	return Receipt{MessageID: msg.ID, Status: StatusSent}, nil
}

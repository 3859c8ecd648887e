package journal

import (
	"context"
	"log/slog"

	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/shop"
)

// LoadCancellations reads the cancellation request journal.
func LoadCancellations(ctx context.Context, store kv.Store, logger *slog.Logger) *List[shop.CancellationRequest] {
	return LoadList[shop.CancellationRequest](ctx, store, kv.KeyCancellationRequests, logger)
}

// LoadContacts reads the contact message journal.
func LoadContacts(ctx context.Context, store kv.Store, logger *slog.Logger) *List[shop.ContactMessage] {
	return LoadList[shop.ContactMessage](ctx, store, kv.KeyContactMessages, logger)
}

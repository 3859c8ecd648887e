package checkout

import (
	"context"
	"log/slog"

	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/shop"
)

// FormStore autosaves the customer form between sessions.
type FormStore struct {
	store  kv.Store
	logger *slog.Logger
}

// NewFormStore creates a form store over store.
func NewFormStore(store kv.Store, logger *slog.Logger) *FormStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormStore{store: store, logger: logger}
}

// Load returns the saved form. Missing or unreadable data returns false.
func (f *FormStore) Load(ctx context.Context) (shop.SavedCustomerForm, bool) {
	var form shop.SavedCustomerForm
	found, err := kv.LoadJSON(ctx, f.store, kv.KeySavedCustomerForm, &form)
	if err != nil {
		f.logger.Warn("saved form unreadable", "key", kv.KeySavedCustomerForm, "error", err)
		return shop.SavedCustomerForm{}, false
	}
	return form, found
}

// Save stores form. Failures are logged and dropped.
func (f *FormStore) Save(ctx context.Context, form shop.SavedCustomerForm) {
	if err := kv.SaveJSON(ctx, f.store, kv.KeySavedCustomerForm, form); err != nil {
		f.logger.Warn("form not persisted", "key", kv.KeySavedCustomerForm, "error", err)
	}
}

// Clear forgets the saved form.
func (f *FormStore) Clear(ctx context.Context) {
	if err := f.store.Remove(ctx, kv.KeySavedCustomerForm); err != nil {
		f.logger.Warn("form not cleared", "key", kv.KeySavedCustomerForm, "error", err)
	}
}

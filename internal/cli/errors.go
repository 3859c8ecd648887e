package cli

import (
	"errors"

	"github.com/roach88/ahluxe/internal/catalog"
	"github.com/roach88/ahluxe/internal/checkout"
	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/support"
)

// Error code constants, unified across all commands.
const (
	ErrCodeGeneric = "E001" // Generic/unknown error
	ErrCodeConfig  = "E002" // Config file unreadable or invalid
	ErrCodeStore   = "E003" // Store could not be opened
	ErrCodeCatalog = "E004" // Catalog could not be loaded
	ErrCodeUsage   = "E005" // Bad argument

	// Rejected events
	ErrCodeCartEmpty      = "E101" // Checkout on an empty cart
	ErrCodeInvalidRating  = "E102" // Review rating outside 1..5
	ErrCodeMissingField   = "E103" // Required form field blank
	ErrCodeUnknownProduct = "E104" // Product id not in catalog
	ErrCodeCheckoutBusy   = "E105" // Checkout already submitting or not open
	ErrCodeCommitFailed   = "E106" // Order could not be committed
)

// classify maps an event error to an error code and exit code.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, checkout.ErrCartEmpty):
		return ErrCodeCartEmpty, ExitFailure
	case errors.Is(err, journal.ErrInvalidRating):
		return ErrCodeInvalidRating, ExitFailure
	case errors.Is(err, support.ErrMissingField):
		return ErrCodeMissingField, ExitFailure
	case errors.Is(err, catalog.ErrUnknownProduct):
		return ErrCodeUnknownProduct, ExitFailure
	case errors.Is(err, checkout.ErrSubmitInProgress), errors.Is(err, checkout.ErrNotOpen):
		return ErrCodeCheckoutBusy, ExitFailure
	case errors.Is(err, checkout.ErrCommitFailed):
		return ErrCodeCommitFailed, ExitFailure
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

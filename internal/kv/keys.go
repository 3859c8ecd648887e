package kv

// Durable keys. Each key has exactly one writer.
const (
	KeyCart                 = "cart"                 // cart.Ledger
	KeyWishlist             = "wishlist"             // wishlist.Ledger
	KeyOrders               = "orders"               // journal.Orders
	KeyReviews              = "reviews"              // journal.Reviews
	KeyLastOrderNumber      = "lastOrderNumber"      // sequence.Generator
	KeyCancellationRequests = "cancellationRequests" // support cancellation flow
	KeyContactMessages      = "contactMessages"      // support contact flow
	KeySavedCustomerForm    = "savedCustomerForm"    // checkout form autosave
)

// Package checkout runs the checkout state machine:
//
//	Idle -> SummaryShown -> Submitting -> Completed
//	             ^              |
//	             +--------------+  commit failure
//	Submitting -> Idle             validation failure (cart emptied)
//
// Opening checkout reserves exactly one order number. Submitting commits the
// order to the journal and clears the cart in a single store transaction, so
// either both happen or neither does, then hands the confirmation text to the
// messaging port.
//
// A single in-flight guard rejects a second Submit while one is running; it
// is never queued. A running Submit cannot be cancelled.
package checkout

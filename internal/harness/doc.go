// Package harness runs storefront scenarios.
//
// A scenario is a YAML list of UI events (add to cart, open checkout, submit
// a review, ...) executed in order against a fresh app.Controller backed by an
// in-memory store. The clock and message ids are deterministic, so the same
// scenario always yields the same trace and final state.
//
// # Scenario format
//
//	name: checkout_happy_path
//	description: Two units of one product are ordered
//	flow:
//	  - event: cart.add
//	    args: {product: black}
//	    expect: {outcome: added}
//	  - event: checkout.open
//	  - event: checkout.submit
//	    args: {name: Ayesha, phone: "03001234567"}
//	    expect:
//	      outcome: placed
//	      result: {order: AHL-00001}
//	assertions:
//	  - type: final_state
//	    table: cart
//	    expect: {item_count: 0}
//
// Steps fail when their expect clause does not match; assertions check the
// trace and the final state. RunWithGolden additionally compares the trace
// and state against testdata/golden/<name>.golden.
package harness

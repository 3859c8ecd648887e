// Package shop defines the storefront data model shared by every ledger and
// journal: line items, orders, reviews and the support records written by the
// cancellation and contact flows.
//
// All types serialize to the JSON shapes stored under the durable keys listed
// in internal/kv. Amounts are whole currency units; there are no fractional
// prices anywhere in the model.
package shop

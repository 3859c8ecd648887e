// Package kv provides the durable string-keyed blob store behind every
// storefront ledger and journal.
//
// The store mirrors browser local storage: synchronous Get/Set/Remove on
// JSON blobs with a total capacity limit. Unlike local storage it also offers
// Update, an all-or-nothing transaction used by checkout to commit the order
// and clear the cart as one unit.
//
// # Drivers
//
//   - Open: SQLite file with WAL mode, used by the CLI
//   - NewMemory: in-process map, used by tests and embedders
//
// # Keys
//
// Every key written by this module is declared in keys.go. Values are JSON
// encoded without HTML escaping so stored text matches what users typed.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
package kv

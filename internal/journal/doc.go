// Package journal holds the append-only record lists: placed orders,
// reviews, cancellation requests and contact messages.
//
// Journals never update or delete entries. Each one owns a single durable
// key and writes the full list through on every append. A list that cannot
// be read loads as empty; a failed write is logged and the in-memory list
// stays authoritative for the session.
package journal

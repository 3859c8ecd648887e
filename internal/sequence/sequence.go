// Package sequence issues durable, monotonically increasing order numbers.
package sequence

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/roach88/ahluxe/internal/kv"
)

// Prefix is prepended to every issued order number.
const Prefix = "AHL-"

// Format renders n as an order number, e.g. 1 -> "AHL-00001".
func Format(n int64) string {
	return fmt.Sprintf("%s%05d", Prefix, n)
}

// Parse extracts the integer from an order number. Returns false for
// anything that is not Prefix followed by digits.
func Parse(number string) (int64, bool) {
	digits, ok := strings.CutPrefix(number, Prefix)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Generator is the durable counter behind order numbers.
//
// The stored value is the last issued integer. Numbers are reservation
// tokens: a checkout that reserves a number and is then abandoned leaves a gap.
//
// Thread-safety: Next is serialized by an internal mutex.
type Generator struct {
	store  kv.Store
	logger *slog.Logger

	mu sync.Mutex
	// last is the highest number issued by this process. It keeps numbers
	// increasing when the store rejects a write.
	last int64
}

// New creates a generator over store.
func New(store kv.Store, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{store: store, logger: logger}
}

// Next reserves and returns the next order number.
//
// Reads the last issued integer N (0 when unset or unparsable), persists N+1
// and returns Format(N+1). A failed write is logged and the number is still
// issued.
func (g *Generator) Next(ctx context.Context) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var issued int64
	err := g.store.Update(ctx, func(tx kv.Tx) error {
		issued = max(g.read(ctx, tx), g.last) + 1
		return tx.Set(ctx, kv.KeyLastOrderNumber, strconv.FormatInt(issued, 10))
	})
	if err != nil {
		if issued == 0 {
			issued = g.last + 1
		}
		g.logger.Warn("order number not persisted", "key", kv.KeyLastOrderNumber, "number", issued, "error", err)
	}

	g.last = issued
	return Format(issued)
}

// Last returns the last issued integer, or 0 if none was issued.
func (g *Generator) Last(ctx context.Context) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return max(g.read(ctx, g.store), g.last)
}

func (g *Generator) read(ctx context.Context, r kv.Reader) int64 {
	raw, ok, err := r.Get(ctx, kv.KeyLastOrderNumber)
	if err != nil {
		g.logger.Warn("order number unreadable", "key", kv.KeyLastOrderNumber, "error", err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

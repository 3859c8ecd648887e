package shop

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₨"

// Layouts used for stored dates. OrderDateLayout matches the en-US locale
// rendering of a timestamp; ReviewDateLayout is ISO 8601 in UTC with millis.
const (
	OrderDateLayout  = "1/2/2006, 3:04:05 PM"
	ReviewDateLayout = "2006-01-02T15:04:05.000Z"
)

var printer = message.NewPrinter(language.English)

// GroupAmount renders n with thousands separators, e.g. 12500 -> "12,500".
func GroupAmount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatAmount renders a grouped amount with the currency symbol.
func FormatAmount(n int64) string {
	return CurrencySymbol + " " + GroupAmount(n)
}

// FormatOrderDate renders t for Order.Date and support records.
func FormatOrderDate(t time.Time) string {
	return t.Format(OrderDateLayout)
}

// FormatISODate renders t for Review.Date.
func FormatISODate(t time.Time) string {
	return t.UTC().Format(ReviewDateLayout)
}

// Clock supplies wall time for record dates.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Package billing holds the monetary aggregation shared by
// quotations, invoices, and payment reconciliation.
package billing

import (
	"math"
	"strconv"
	"strings"
)

// LineItem is a (machine, hours, rate) tuple. Hours and rate arrive as
// strings from the client and are parsed leniently.
type LineItem struct {
	Hours string
	Rate  string
}

// ParseAmount parses a decimal string, treating empty or malformed
// input as zero. The guard lives here, at the only parse site, so a
// bad value can never push NaN into a document total.
func ParseAmount(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}

	// ParseFloat accepts "NaN" and "Inf" literals without error.
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}

	return amount
}

// LineTotal is the contribution of a single item: hours times rate.
func LineTotal(hours, rate string) float64 {
	return ParseAmount(hours) * ParseAmount(rate)
}

// Total sums hours times rate across all items.
func Total(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += LineTotal(item.Hours, item.Rate)
	}

	return total
}

// PaymentsTotal sums recorded payment amounts. Outstanding balance is
// always derived from this on read, never stored.
func PaymentsTotal(amounts []float64) float64 {
	var total float64
	for _, amount := range amounts {
		total += amount
	}

	return total
}

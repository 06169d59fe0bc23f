// Package pricing derives order totals from a line-item set and a tax rate.
// Everything here is pure: no state, no side effects, no error conditions.
// Callers reject negative inputs before invoking.
package pricing

import "math"

// LineItem is one order line as the calculator sees it: the snapshot unit
// price and the current quantity.
type LineItem struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the derived money breakdown of an order. Discount is always zero
// today but stays in the output for forward compatibility.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// round2 rounds half-up to two decimal places. Inputs are never negative.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ComputeTotals derives subtotal, tax, discount and total for the given line
// set. The subtotal is rounded once at the end, not per line, so repeated
// recomputation cannot accumulate rounding drift.
func ComputeTotals(items []LineItem, taxRatePercent float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	subtotal = round2(subtotal)

	tax := round2(subtotal * taxRatePercent / 100)
	discount := 0.0
	total := round2(subtotal + tax - discount)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}

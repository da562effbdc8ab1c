// Package calc derives line-item subtotals and the proposal grand total.
// Everything here is pure; the wizard controller calls it at write time so
// stored subtotals are always current.
package calc

import (
	"math"

	"github.com/nurpe/proposal-builder/internal/model"
)

// Subtotal derives a line item's amount from its pricing mode. Fixed-price
// items use the rate directly; hourly items multiply rate by hours. Missing,
// NaN, or infinite operands count as zero, and the result is never negative.
func Subtotal(item model.LineItem) float64 {
	rate := operand(item.Rate)
	if item.IsFixedPrice {
		return clamp(rate)
	}
	return clamp(rate * operand(item.Hours))
}

// Total sums the subtotals of the sequence; an empty sequence yields 0.
func Total(items []model.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += Subtotal(item)
	}
	return sum
}

func operand(v *float64) float64 {
	if v == nil {
		return 0
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

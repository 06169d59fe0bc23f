package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		taxRate  float64
		expected Totals
	}{
		{
			name:     "single line",
			items:    []LineItem{{UnitPrice: 100, Quantity: 2}},
			taxRate:  10,
			expected: Totals{Subtotal: 200.00, Tax: 20.00, Discount: 0, Total: 220.00},
		},
		{
			name:     "quantity three after repeat add",
			items:    []LineItem{{UnitPrice: 100, Quantity: 3}},
			taxRate:  10,
			expected: Totals{Subtotal: 300.00, Tax: 30.00, Discount: 0, Total: 330.00},
		},
		{
			name: "multiple lines",
			items: []LineItem{
				{UnitPrice: 249.50, Quantity: 1},
				{UnitPrice: 99.99, Quantity: 2},
			},
			taxRate:  5,
			expected: Totals{Subtotal: 449.48, Tax: 22.47, Discount: 0, Total: 471.95},
		},
		{
			name:     "empty line set",
			items:    nil,
			taxRate:  18,
			expected: Totals{Subtotal: 0, Tax: 0, Discount: 0, Total: 0},
		},
		{
			name:     "zero tax rate",
			items:    []LineItem{{UnitPrice: 55.55, Quantity: 3}},
			taxRate:  0,
			expected: Totals{Subtotal: 166.65, Tax: 0, Discount: 0, Total: 166.65},
		},
		{
			name:     "tax rounds half up",
			items:    []LineItem{{UnitPrice: 12.50, Quantity: 1}},
			taxRate:  5, // 12.50 * 0.05 = 0.625 -> 0.63
			expected: Totals{Subtotal: 12.50, Tax: 0.63, Discount: 0, Total: 13.13},
		},
		{
			name: "subtotal rounded once at the end",
			items: []LineItem{
				{UnitPrice: 0.105, Quantity: 1},
				{UnitPrice: 0.105, Quantity: 1},
			},
			taxRate: 0,
			// 0.21 exactly; per-line rounding would have given 0.11 + 0.11 = 0.22.
			expected: Totals{Subtotal: 0.21, Tax: 0, Discount: 0, Total: 0.21},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.taxRate)
			assert.InDelta(t, tt.expected.Subtotal, got.Subtotal, 1e-9, "subtotal")
			assert.InDelta(t, tt.expected.Tax, got.Tax, 1e-9, "tax")
			assert.InDelta(t, tt.expected.Discount, got.Discount, 1e-9, "discount")
			assert.InDelta(t, tt.expected.Total, got.Total, 1e-9, "total")
		})
	}
}

func TestComputeTotalsDeterministic(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 100, Quantity: 2},
		{UnitPrice: 33.33, Quantity: 3},
	}

	first := ComputeTotals(items, 12.5)
	second := ComputeTotals(items, 12.5)
	assert.Equal(t, first, second)
}

func TestComputeTotalsTotalIdentity(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 149.99, Quantity: 2},
		{UnitPrice: 9.50, Quantity: 7},
	}

	got := ComputeTotals(items, 18)
	assert.InDelta(t, got.Subtotal+got.Tax-got.Discount, got.Total, 0.005)
}

package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDiscountPercentage(t *testing.T) {
	tests := []struct {
		name    string
		regular string
		sale    string
		want    string
	}{
		{"tee scenario", "500", "400", "20"},
		{"no discount when equal", "500", "500", "0"},
		{"no discount when sale is higher", "500", "600", "0"},
		{"free item", "80", "0", "100"},
		{"rounds to two places", "3", "2", "33.33"},
		{"rounds half up", "8", "7.9996", "0.01"},
		{"zero regular", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountPercentage(d(tt.regular), d(tt.sale))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
			assert.True(t, got.GreaterThanOrEqual(decimal.Zero))
			assert.True(t, got.LessThanOrEqual(hundred))
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(d("19.99"), 3).Equal(d("59.97")))
	assert.True(t, LineTotal(d("19.99"), 0).IsZero())
	assert.True(t, LineTotal(d("0"), 5).IsZero())
}

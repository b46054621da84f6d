package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountPercentage returns (regular-sale)/regular*100 rounded half away from zero
// to two places. It is zero whenever there is no real discount.
func DiscountPercentage(regular, sale decimal.Decimal) decimal.Decimal {
	if !regular.IsPositive() || sale.IsNegative() || sale.GreaterThanOrEqual(regular) {
		return decimal.Zero
	}
	return regular.Sub(sale).Div(regular).Mul(hundred).Round(2)
}

func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

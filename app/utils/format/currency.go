package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

type Currency struct {
	ac accounting.Accounting
}

func NewCurrency(symbol string) *Currency {
	return &Currency{ac: accounting.Accounting{Symbol: symbol, Precision: 2}}
}

// Money formats decimals, numbers and numeric strings; anything else renders as zero.
func (c *Currency) Money(amount interface{}) string {
	var decAmount decimal.Decimal
	switch v := amount.(type) {
	case decimal.Decimal:
		decAmount = v
	case decimal.NullDecimal:
		if !v.Valid {
			return "-"
		}
		decAmount = v.Decimal
	case float64:
		decAmount = decimal.NewFromFloat(v)
	case int:
		decAmount = decimal.NewFromInt(int64(v))
	case int64:
		decAmount = decimal.NewFromInt(v)
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			decAmount = decimal.Zero
			break
		}
		decAmount = parsed
	}

	return c.ac.FormatMoney(decAmount.InexactFloat64())
}

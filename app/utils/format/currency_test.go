package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrencyMoney(t *testing.T) {
	c := NewCurrency("$")

	assert.Equal(t, "$1,234.50", c.Money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$12.00", c.Money(12))
	assert.Equal(t, "$0.00", c.Money("not a number"))
	assert.Equal(t, "-", c.Money(decimal.NullDecimal{}))
	assert.Equal(t, "$7.25", c.Money(decimal.NewNullDecimal(decimal.RequireFromString("7.25"))))
}

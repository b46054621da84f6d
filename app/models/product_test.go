package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductJSONDerivedFields(t *testing.T) {
	p := Product{
		Name:         "Tee",
		RegularPrice: decimal.NewFromInt(500),
		SalePrice:    decimal.NewNullDecimal(decimal.NewFromInt(400)),
		Status:       ProductStatusActive,
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 20.0, out["discount_percentage"])
	assert.Equal(t, "500", out["regular_price"])
	assert.Equal(t, "400", out["effective_price"])
	assert.Equal(t, PlaceholderImageURL, out["main_image_url"])
	assert.Equal(t, []interface{}{}, out["images"])
}

func TestProductJSONWithoutSalePrice(t *testing.T) {
	raw, err := json.Marshal(Product{Name: "Cap", RegularPrice: decimal.NewFromInt(10)})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 0.0, out["discount_percentage"])
	assert.Nil(t, out["sale_price"])
}

package models

import (
	"encoding/json"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/utils/calc"
	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	OrderID      uint                `gorm:"not null;index" json:"order"`
	ProductID    *uint               `gorm:"index" json:"product"`
	Product      *Product            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ProductName  string              `gorm:"size:200" json:"product_name"`
	ProductSKU   string              `gorm:"column:product_sku;size:100" json:"product_sku"`
	Quantity     int                 `gorm:"not null;default:1" json:"quantity"`
	PriceAtOrder decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price_at_order"`
	VariantInfo  string              `gorm:"size:100" json:"variant_info"`
	DateAdded    time.Time           `gorm:"autoCreateTime" json:"date_added"`
}

// GetTotal uses the price captured when the order was placed. Rows created without
// a snapshot fall back to the product's current effective price.
func (i *OrderItem) GetTotal() decimal.Decimal {
	if i.PriceAtOrder.Valid {
		return calc.LineTotal(i.PriceAtOrder.Decimal, i.Quantity)
	}
	if i.Product != nil {
		return calc.LineTotal(i.Product.EffectivePrice(), i.Quantity)
	}
	return decimal.Zero
}

func (i *OrderItem) DisplayName() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	if i.Product != nil {
		return i.Product.Name
	}
	return "Deleted product"
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type orderItem OrderItem
	return json.Marshal(struct {
		orderItem
		ProductName string          `json:"product_name"`
		GetTotal    decimal.Decimal `json:"get_total"`
	}{
		orderItem:   orderItem(i),
		ProductName: i.DisplayName(),
		GetTotal:    i.GetTotal(),
	})
}

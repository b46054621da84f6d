package models

import (
	"encoding/json"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/utils/calc"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;index" json:"cart"`
	ProductID uint      `gorm:"not null;index" json:"product"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Size      string    `gorm:"size:50" json:"size"`
	Sleeve    string    `gorm:"size:50" json:"sleeve"`
	DateAdded time.Time `gorm:"autoCreateTime" json:"date_added"`
}

// GetTotal always reflects the live product price; prices are frozen only at checkout.
func (ci *CartItem) GetTotal() decimal.Decimal {
	if ci.Product == nil {
		return decimal.Zero
	}
	return calc.LineTotal(ci.Product.EffectivePrice(), ci.Quantity)
}

func (ci *CartItem) VariantInfo() string {
	switch {
	case ci.Size != "" && ci.Sleeve != "":
		return ci.Size + " / " + ci.Sleeve
	case ci.Size != "":
		return ci.Size
	default:
		return ci.Sleeve
	}
}

func (ci CartItem) MarshalJSON() ([]byte, error) {
	type cartItem CartItem

	name := ""
	if ci.Product != nil {
		name = ci.Product.Name
	}

	return json.Marshal(struct {
		cartItem
		ProductName string          `json:"product_name"`
		GetTotal    decimal.Decimal `json:"get_total"`
	}{
		cartItem:    cartItem(ci),
		ProductName: name,
		GetTotal:    ci.GetTotal(),
	})
}

package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    *uint      `gorm:"index" json:"user"`
	User      *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SessionID string     `gorm:"size:64;index" json:"session_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].GetTotal())
	}
	return total
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) MarshalJSON() ([]byte, error) {
	type cart Cart

	items := c.Items
	if items == nil {
		items = []CartItem{}
	}

	return json.Marshal(struct {
		cart
		Items     []CartItem      `json:"items"`
		Total     decimal.Decimal `json:"total"`
		ItemCount int             `json:"item_count"`
	}{
		cart:      cart(c),
		Items:     items,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	})
}

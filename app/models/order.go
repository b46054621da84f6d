package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderTypeWhatsApp = "whatsapp"
	OrderTypeEmail    = "email"
)

type Order struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	OrderCode       string           `gorm:"size:20;not null;uniqueIndex" json:"order_id"`
	UserID          *uint            `gorm:"index" json:"customer"`
	User            *User            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	DateOrdered     time.Time        `gorm:"autoCreateTime;index" json:"date_ordered"`
	Status          string           `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Complete        bool             `gorm:"not null;default:false;index" json:"complete"`
	IsPaid          bool             `gorm:"not null;default:false" json:"is_paid"`
	TransactionID   string           `gorm:"size:100;index" json:"transaction_id"`
	DeliveryPerson  string           `gorm:"size:100" json:"delivery_person"`
	OrderType       string           `gorm:"size:10;not null;default:'whatsapp'" json:"order_type"`
	ContactValue    string           `gorm:"size:255" json:"contact_value"`
	Items           []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress *ShippingAddress `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shipping_address"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderCode == "" {
		o.OrderCode = NewOrderCode()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.OrderType == "" {
		o.OrderType = OrderTypeWhatsApp
	}
	o.Complete = o.Status == OrderStatusDelivered
	return nil
}

// NewOrderCode returns a code such as ORD-1A2B3C4D.
func NewOrderCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ORD-%s", strings.ToUpper(id[:8]))
}

func (o *Order) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].GetTotal())
	}
	return total
}

func (o *Order) CartItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o *Order) CustomerName() string {
	if o.User == nil {
		return "Guest"
	}
	return o.User.DisplayName()
}

func (o *Order) CustomerEmail() string {
	if o.User == nil {
		return ""
	}
	return o.User.Email
}

func (o *Order) StatusLabel() string {
	return OrderStatusLabel(o.Status)
}

func (o Order) MarshalJSON() ([]byte, error) {
	type order Order

	items := o.Items
	if items == nil {
		items = []OrderItem{}
	}

	return json.Marshal(struct {
		order
		Items         []OrderItem     `json:"items"`
		CartTotal     decimal.Decimal `json:"cart_total"`
		CartItemCount int             `json:"cart_item_count"`
		CustomerName  string          `json:"customer_name"`
		CustomerEmail string          `json:"customer_email"`
	}{
		order:         order(o),
		Items:         items,
		CartTotal:     o.CartTotal(),
		CartItemCount: o.CartItemCount(),
		CustomerName:  o.CustomerName(),
		CustomerEmail: o.CustomerEmail(),
	})
}

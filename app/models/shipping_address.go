package models

import (
	"strings"
	"time"
)

type ShippingAddress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"customer"`
	User      *User     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	OrderID   *uint     `gorm:"uniqueIndex" json:"order"`
	Address   string    `gorm:"size:255;not null" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	State     string    `gorm:"size:100" json:"state"`
	Zipcode   string    `gorm:"size:20" json:"zipcode"`
	Phone     string    `gorm:"size:20" json:"phone"`
	DateAdded time.Time `gorm:"autoCreateTime" json:"date_added"`
}

func (a *ShippingAddress) OneLine() string {
	var parts []string
	for _, p := range []string{a.Address, a.City, a.State, a.Zipcode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

package models

import (
	"encoding/json"
	"time"
)

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"product"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user;index" json:"user"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Review) MarshalJSON() ([]byte, error) {
	type review Review

	var userEmail, productName string
	if r.User != nil {
		userEmail = r.User.Email
	}
	if r.Product != nil {
		productName = r.Product.Name
	}

	return json.Marshal(struct {
		review
		UserEmail   string `json:"user_email"`
		ProductName string `json:"product_name"`
	}{
		review:      review(r),
		UserEmail:   userEmail,
		ProductName: productName,
	})
}

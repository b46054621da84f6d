package models

import "time"

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product"`
	URL       string `gorm:"size:500;not null" json:"image"`
	PublicID  string `gorm:"size:255" json:"-"`
	IsMain    bool   `gorm:"not null;default:false" json:"is_main"`
	// MainSlot holds ProductID while the image is main and NULL otherwise, so the
	// unique index allows at most one main image per product.
	MainSlot  *uint     `gorm:"uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *ProductImage) MarkMain(main bool) {
	i.IsMain = main
	if main {
		slot := i.ProductID
		i.MainSlot = &slot
		return
	}
	i.MainSlot = nil
}

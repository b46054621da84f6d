package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/utils/calc"
	"github.com/shopspring/decimal"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDraft    = "draft"
)

// PlaceholderImageURL is served as main_image_url for products without images.
const PlaceholderImageURL = "https://placehold.co/300x300/1a1a1f/6b7280?text=No+Image"

type Product struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	Name              string              `gorm:"size:200;not null" json:"name"`
	SKU               *string             `gorm:"column:sku;size:100;uniqueIndex" json:"sku"`
	Description       string              `gorm:"type:text" json:"description"`
	Material          string              `gorm:"size:100" json:"material"`
	Specifications    string              `gorm:"type:text" json:"specifications"`
	SellerInformation string              `gorm:"type:text" json:"seller_information"`
	Size              string              `gorm:"size:50" json:"size"`
	Sleeve            string              `gorm:"size:50" json:"sleeve"`
	RegularPrice      decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"regular_price"`
	SalePrice         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"sale_price"`
	StockQuantity     int                 `gorm:"not null;default:0" json:"stock_quantity"`
	CategoryID        *uint               `gorm:"index" json:"category"`
	Category          *Category           `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	IsFeatured        bool                `gorm:"not null;default:false;index" json:"is_featured"`
	IsNewArrival      bool                `gorm:"not null;default:false;index" json:"is_new_arrival"`
	IsBestSeller      bool                `gorm:"not null;default:false;index" json:"is_best_seller"`
	Status            string              `gorm:"size:10;not null;default:'active'" json:"status"`
	Images            []ProductImage      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// DiscountPercentage is derived on read and never stored.
func (p *Product) DiscountPercentage() decimal.Decimal {
	if !p.SalePrice.Valid {
		return decimal.Zero
	}
	return calc.DiscountPercentage(p.RegularPrice, p.SalePrice.Decimal)
}

// EffectivePrice is the price a customer pays right now.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid && p.SalePrice.Decimal.GreaterThanOrEqual(decimal.Zero) && p.SalePrice.Decimal.LessThan(p.RegularPrice) {
		return p.SalePrice.Decimal
	}
	return p.RegularPrice
}

func (p *Product) MainImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsMain {
			return &p.Images[i]
		}
	}
	return nil
}

func (p *Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}

func (p *Product) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "This field is required."
	}
	if !p.RegularPrice.IsPositive() {
		errs["regular_price"] = "Regular price must be greater than zero."
	}
	if p.SalePrice.Valid {
		switch {
		case p.SalePrice.Decimal.IsNegative():
			errs["sale_price"] = "Sale price cannot be negative."
		case p.SalePrice.Decimal.GreaterThan(p.RegularPrice):
			errs["sale_price"] = "Sale price cannot exceed the regular price."
		}
	}
	if p.StockQuantity < 0 {
		errs["stock_quantity"] = "Stock quantity cannot be negative."
	}
	switch p.Status {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDraft:
	default:
		errs["status"] = "Status must be one of active, inactive, draft."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// MarshalJSON adds the derived fields. Money stays a decimal string; the
// discount percentage is a plain number.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product

	mainImageURL := PlaceholderImageURL
	if img := p.MainImage(); img != nil {
		mainImageURL = img.URL
	}
	categoryName := ""
	if p.Category != nil {
		categoryName = p.Category.Name
	}
	images := p.Images
	if images == nil {
		images = []ProductImage{}
	}

	return json.Marshal(struct {
		product
		Images             []ProductImage  `json:"images"`
		DiscountPercentage float64         `json:"discount_percentage"`
		EffectivePrice     decimal.Decimal `json:"effective_price"`
		CategoryName       string          `json:"category_name"`
		MainImageURL       string          `json:"main_image_url"`
	}{
		product:            product(p),
		Images:             images,
		DiscountPercentage: p.DiscountPercentage().InexactFloat64(),
		EffectivePrice:     p.EffectivePrice(),
		CategoryName:       categoryName,
		MainImageURL:       mainImageURL,
	})
}

package migrations

import (
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingAddress{},
		&models.Cart{},
		&models.CartItem{},
		&models.Review{},
		&models.RefreshToken{},
	)
}

package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
)

type CartItemRepository struct {
	DB *gorm.DB
}

type CartItemRepositoryImpl interface {
	Add(ctx context.Context, tx *gorm.DB, item *models.CartItem) error
	IncrementQuantity(ctx context.Context, tx *gorm.DB, itemID uint, by int) error
	Delete(ctx context.Context, cartID, itemID uint) (bool, error)
	FindVariant(ctx context.Context, tx *gorm.DB, cartID, productID uint, size, sleeve string) (*models.CartItem, error)
}

func NewCartItemRepository(db *gorm.DB) CartItemRepositoryImpl {
	return &CartItemRepository{db}
}

func (r *CartItemRepository) Add(ctx context.Context, tx *gorm.DB, item *models.CartItem) error {
	return conn(r.DB, tx).WithContext(ctx).Omit("Product").Create(item).Error
}

// IncrementQuantity adds to the stored quantity in the database, so concurrent
// adds of the same variant are not lost.
func (r *CartItemRepository) IncrementQuantity(ctx context.Context, tx *gorm.DB, itemID uint, by int) error {
	return conn(r.DB, tx).WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", by)).Error
}

func (r *CartItemRepository) Delete(ctx context.Context, cartID, itemID uint) (bool, error) {
	result := r.DB.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&models.CartItem{})
	return result.RowsAffected > 0, result.Error
}

func (r *CartItemRepository) FindVariant(ctx context.Context, tx *gorm.DB, cartID, productID uint, size, sleeve string) (*models.CartItem, error) {
	var item models.CartItem
	err := conn(r.DB, tx).WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND size = ? AND sleeve = ?", cartID, productID, size, sleeve).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

package repositories

import (
	"context"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, db *gorm.DB, items []models.OrderItem) error
	DeleteByOrder(ctx context.Context, db *gorm.DB, orderID uint) error
}

type OrderItemRepositoryImpl struct {
	DB *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &OrderItemRepositoryImpl{DB: db}
}

func (r *OrderItemRepositoryImpl) BulkCreate(ctx context.Context, db *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(r.DB, db).WithContext(ctx).Omit("Product").Create(&items).Error
}

func (r *OrderItemRepositoryImpl) DeleteByOrder(ctx context.Context, db *gorm.DB, orderID uint) error {
	return conn(r.DB, db).WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
}

package repositories

import (
	"context"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
)

type ShippingAddressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, address *models.ShippingAddress) error
	Update(ctx context.Context, tx *gorm.DB, address *models.ShippingAddress) error
	DeleteByOrder(ctx context.Context, tx *gorm.DB, orderID uint) error
}

type shippingAddressRepository struct {
	db *gorm.DB
}

func NewShippingAddressRepository(db *gorm.DB) ShippingAddressRepository {
	return &shippingAddressRepository{db: db}
}

func (r *shippingAddressRepository) Create(ctx context.Context, tx *gorm.DB, address *models.ShippingAddress) error {
	return conn(r.db, tx).WithContext(ctx).Omit("User").Create(address).Error
}

func (r *shippingAddressRepository) Update(ctx context.Context, tx *gorm.DB, address *models.ShippingAddress) error {
	return conn(r.db, tx).WithContext(ctx).Omit("User").Save(address).Error
}

func (r *shippingAddressRepository) DeleteByOrder(ctx context.Context, tx *gorm.DB, orderID uint) error {
	return conn(r.db, tx).WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.ShippingAddress{}).Error
}

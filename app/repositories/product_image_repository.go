package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
)

type ProductImageRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, images []models.ProductImage) error
	GetByID(ctx context.Context, tx *gorm.DB, productID, imageID uint) (*models.ProductImage, error)
	ClearMain(ctx context.Context, tx *gorm.DB, productID uint) error
	SetMain(ctx context.Context, tx *gorm.DB, image *models.ProductImage) error
	Delete(ctx context.Context, tx *gorm.DB, image *models.ProductImage) error
	CountMain(ctx context.Context, productID uint) (int64, error)
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) CreateBatch(ctx context.Context, tx *gorm.DB, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).Create(&images).Error
}

func (r *productImageRepository) GetByID(ctx context.Context, tx *gorm.DB, productID, imageID uint) (*models.ProductImage, error) {
	var image models.ProductImage
	err := conn(r.db, tx).WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *productImageRepository) ClearMain(ctx context.Context, tx *gorm.DB, productID uint) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("product_id = ? AND (is_main = ? OR main_slot IS NOT NULL)", productID, true).
		Updates(map[string]interface{}{"is_main": false, "main_slot": nil}).Error
}

func (r *productImageRepository) SetMain(ctx context.Context, tx *gorm.DB, image *models.ProductImage) error {
	image.MarkMain(true)
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("id = ?", image.ID).
		Updates(map[string]interface{}{"is_main": true, "main_slot": image.MainSlot}).Error
}

func (r *productImageRepository) Delete(ctx context.Context, tx *gorm.DB, image *models.ProductImage) error {
	return conn(r.db, tx).WithContext(ctx).Delete(&models.ProductImage{}, "id = ?", image.ID).Error
}

func (r *productImageRepository) CountMain(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductImage{}).
		Where("product_id = ? AND is_main = ?", productID, true).
		Count(&count).Error
	return count, err
}

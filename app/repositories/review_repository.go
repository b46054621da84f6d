package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewFilter struct {
	ListParams
	ProductID *uint
	Rating    *int
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	Exists(ctx context.Context, productID, userID uint) (bool, error)
	List(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

var reviewOrdering = orderingFields{"created_at": "reviews.created_at", "rating": "reviews.rating", "id": "reviews.id"}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("User").Preload("Product").First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Exists(ctx context.Context, productID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Review{}).
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Joins("LEFT JOIN products ON products.id = reviews.product_id")
	if filter.ProductID != nil {
		q = q.Where("reviews.product_id = ?", *filter.ProductID)
	}
	if filter.Rating != nil {
		q = q.Where("reviews.rating = ?", *filter.Rating)
	}
	q = applySearch(q, filter.Search, "users.email", "products.name", "reviews.comment").Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	q = applyOrdering(q, filter.Ordering, reviewOrdering, "reviews.created_at DESC, reviews.id DESC")
	err := applyPage(q.Select("reviews.*"), filter.ListParams).
		Preload("User").
		Preload("Product").
		Find(&reviews).Error
	if err != nil {
		log.Printf("ReviewRepository.List: failed to list reviews: %v", err)
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}

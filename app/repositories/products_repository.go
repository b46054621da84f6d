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

type ProductFilter struct {
	ListParams
	CategoryID   *uint
	IsFeatured   *bool
	IsNewArrival *bool
	IsBestSeller *bool
	Status       string
}

type ProductFlags struct {
	IsFeatured   *bool
	IsNewArrival *bool
	IsBestSeller *bool
}

func (f ProductFlags) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if f.IsFeatured != nil {
		cols["is_featured"] = *f.IsFeatured
	}
	if f.IsNewArrival != nil {
		cols["is_new_arrival"] = *f.IsNewArrival
	}
	if f.IsBestSeller != nil {
		cols["is_best_seller"] = *f.IsBestSeller
	}
	return cols
}

type ProductStats struct {
	TotalProducts    int64 `json:"total_products"`
	FeaturedProducts int64 `json:"featured_products"`
	NewArrivals      int64 `json:"new_arrivals"`
	BestSellers      int64 `json:"best_sellers"`
	CategoriesCount  int64 `json:"categories_count"`
}

type ProductRepositoryImpl interface {
	Create(ctx context.Context, tx *gorm.DB, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, tx *gorm.DB, product *models.Product) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error)
	BulkUpdateFlags(ctx context.Context, ids []uint, flags ProductFlags) (int64, error)
	Statistics(ctx context.Context) (ProductStats, error)
	TopOrdered(ctx context.Context, limit int) ([]models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

var productOrdering = orderingFields{"name": "products.name", "regular_price": "products.regular_price", "id": "products.id"}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("product_images.is_main DESC, product_images.id ASC")
}

func (p *productRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("Images", preloadImages)
}

func (p *productRepository) Create(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	return conn(p.db, tx).WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := p.withRelations(p.db.WithContext(ctx)).First(&product, "products.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// LockByID takes a row lock on the product for the rest of tx. SQLite has no row
// locks; there the write transaction itself serialises callers.
func (p *productRepository) LockByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	q := p.db.WithContext(ctx).Model(&models.Product{})
	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.IsFeatured != nil {
		q = q.Where("products.is_featured = ?", *filter.IsFeatured)
	}
	if filter.IsNewArrival != nil {
		q = q.Where("products.is_new_arrival = ?", *filter.IsNewArrival)
	}
	if filter.IsBestSeller != nil {
		q = q.Where("products.is_best_seller = ?", *filter.IsBestSeller)
	}
	if filter.Status != "" {
		q = q.Where("products.status = ?", filter.Status)
	}
	q = applySearch(q, filter.Search, "products.name", "products.sku", "products.description").Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	q = applyOrdering(q, filter.Ordering, productOrdering, "products.id DESC")
	if err := p.withRelations(applyPage(q, filter.ListParams)).Find(&products).Error; err != nil {
		log.Printf("ProductRepository.List: failed to list products: %v", err)
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (p *productRepository) Update(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	return conn(p.db, tx).WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// Delete removes the product with its images, cart lines and reviews. Order lines
// keep their snapshot and lose only the product reference.
func (p *productRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := conn(p.db, tx).WithContext(ctx)

	if err := db.Model(&models.OrderItem{}).Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach order items: %w", err)
	}
	for _, dependent := range []interface{}{&models.ProductImage{}, &models.CartItem{}, &models.Review{}} {
		if err := db.Where("product_id = ?", id).Delete(dependent).Error; err != nil {
			return fmt.Errorf("failed to delete product dependents: %w", err)
		}
	}
	return db.Delete(&models.Product{}, "id = ?", id).Error
}

func (p *productRepository) SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error
	return count > 0, err
}

// BulkUpdateFlags returns the number of products matched. Unknown ids are ignored.
func (p *productRepository) BulkUpdateFlags(ctx context.Context, ids []uint, flags ProductFlags) (int64, error) {
	cols := flags.columns()
	if len(ids) == 0 {
		return 0, nil
	}
	if len(cols) == 0 {
		var count int64
		err := p.db.WithContext(ctx).Model(&models.Product{}).Where("id IN ?", ids).Count(&count).Error
		return count, err
	}

	result := p.db.WithContext(ctx).Model(&models.Product{}).Where("id IN ?", ids).Updates(cols)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk update products: %w", result.Error)
	}

	// MySQL reports changed rows rather than matched rows, so count matches directly.
	var matched int64
	if err := p.db.WithContext(ctx).Model(&models.Product{}).Where("id IN ?", ids).Count(&matched).Error; err != nil {
		return 0, err
	}
	return matched, nil
}

func (p *productRepository) Statistics(ctx context.Context) (ProductStats, error) {
	var stats ProductStats
	err := p.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM products) AS total_products,
			(SELECT COUNT(*) FROM products WHERE is_featured = ?) AS featured_products,
			(SELECT COUNT(*) FROM products WHERE is_new_arrival = ?) AS new_arrivals,
			(SELECT COUNT(*) FROM products WHERE is_best_seller = ?) AS best_sellers,
			(SELECT COUNT(*) FROM categories) AS categories_count`,
		true, true, true,
	).Scan(&stats).Error
	if err != nil {
		return stats, fmt.Errorf("failed to compute product statistics: %w", err)
	}
	return stats, nil
}

// TopOrdered ranks products by the number of order lines referencing them.
func (p *productRepository) TopOrdered(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := p.withRelations(p.db.WithContext(ctx)).
		Model(&models.Product{}).
		Select("products.*").
		Joins("LEFT JOIN order_items ON order_items.product_id = products.id").
		Group("products.id").
		Order("COUNT(order_items.id) DESC, products.id ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top products: %w", err)
	}
	return products, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	GetCartWithItems(ctx context.Context, cartID uint) (*models.Cart, error)
	LockWithItems(ctx context.Context, tx *gorm.DB, cartID uint) (*models.Cart, error)
	FindOrCreate(ctx context.Context, tx *gorm.DB, userID *uint, sessionID string) (*models.Cart, error)
	List(ctx context.Context, params ListParams) ([]models.Cart, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, cartID uint) (bool, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db}
}

func withCartItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.Product")
}

func (r *cartRepository) GetCartWithItems(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := withCartItems(r.db.WithContext(ctx)).First(&cart, "id = ?", cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// LockWithItems takes a row lock on the cart for the rest of tx and loads its
// lines inside the same transaction.
func (r *cartRepository) LockWithItems(ctx context.Context, tx *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "id = ?", cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	err = withCartItems(tx.WithContext(ctx)).First(&cart, "id = ?", cartID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindOrCreate returns the basket owned by a user, or by an anonymous session
// when userID is nil.
func (r *cartRepository) FindOrCreate(ctx context.Context, tx *gorm.DB, userID *uint, sessionID string) (*models.Cart, error) {
	var cart models.Cart
	q := conn(r.db, tx).WithContext(ctx)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("user_id IS NULL AND session_id = ?", sessionID)
	}

	err := q.Attrs(models.Cart{UserID: userID, SessionID: sessionID}).FirstOrCreate(&cart).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find or create cart: %w", err)
	}
	return &cart, nil
}

func (r *cartRepository) List(ctx context.Context, params ListParams) ([]models.Cart, int64, error) {
	var carts []models.Cart
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Cart{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count carts: %w", err)
	}
	if err := withCartItems(applyPage(q.Order("updated_at DESC, id DESC"), params)).Find(&carts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list carts: %w", err)
	}
	return carts, total, nil
}

// Delete removes the cart and its lines. It reports false when the cart was
// already gone.
func (r *cartRepository) Delete(ctx context.Context, tx *gorm.DB, cartID uint) (bool, error) {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return false, fmt.Errorf("failed to clear cart items: %w", err)
	}
	result := db.Delete(&models.Cart{}, "id = ?", cartID)
	return result.RowsAffected > 0, result.Error
}

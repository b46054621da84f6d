package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
)

type UserRepositoryImpl interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindCustomerByID(ctx context.Context, id uint) (*models.User, error)
	ListCustomers(ctx context.Context, params ListParams) ([]models.User, int64, error)
	ToggleActive(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryImpl {
	return &userRepository{db}
}

var customerOrdering = orderingFields{"date_joined": "date_joined", "email": "email", "id": "id"}

// Create expects user.Password to already hold a bcrypt hash.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("UserRepository.Create: failed to create user %s: %v", user.Email, err)
		return err
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(r.db.WithContext(ctx).Preload("Profile"), "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(r.db.WithContext(ctx), "LOWER(email) = LOWER(?)", email)
}

func (r *userRepository) FindCustomerByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(r.db.WithContext(ctx).Preload("Profile"), "id = ? AND is_staff = ?", id, false)
}

func (r *userRepository) first(q *gorm.DB, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := q.Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListCustomers(ctx context.Context, params ListParams) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	q := r.db.WithContext(ctx).Model(&models.User{}).Where("is_staff = ?", false)
	q = applySearch(q, params.Search, "email", "first_name", "last_name").Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	q = applyOrdering(q, params.Ordering, customerOrdering, "date_joined DESC, id DESC")
	if err := applyPage(q, params).Preload("Profile").Find(&users).Error; err != nil {
		log.Printf("UserRepository.ListCustomers: failed to list customers: %v", err)
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return users, total, nil
}

// ToggleActive flips is_active in a single statement so concurrent toggles never
// lose an update.
func (r *userRepository) ToggleActive(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", gorm.Expr("NOT is_active")).Error
}

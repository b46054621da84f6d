package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, token *models.RefreshToken) error
	Consume(ctx context.Context, tx *gorm.DB, jti, replacedBy string, now time.Time) (bool, error)
	RevokeAllForUser(ctx context.Context, userID uint, now time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, tx *gorm.DB, token *models.RefreshToken) error {
	return conn(r.db, tx).WithContext(ctx).Omit("User").Create(token).Error
}

// Consume revokes a live token exactly once. A second caller presenting the same
// jti gets false.
func (r *refreshTokenRepository) Consume(ctx context.Context, tx *gorm.DB, jti, replacedBy string, now time.Time) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked_at IS NULL AND expires_at > ?", jti, now).
		Updates(map[string]interface{}{"revoked_at": now, "replaced_by": replacedBy})
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume refresh token: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uint, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"gorm.io/gorm"
)

type ReviewInput struct {
	ProductID uint   `json:"product" validate:"required"`
	UserID    uint   `json:"user" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment"`
}

type ReviewPatch struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepositoryImpl
	userRepo    repositories.UserRepositoryImpl
}

func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepositoryImpl, userRepo repositories.UserRepositoryImpl) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo, userRepo: userRepo}
}

func (s *ReviewService) ListReviews(ctx context.Context, filter repositories.ReviewFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(ctx, filter)
}

func (s *ReviewService) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, notFound("review", id)
	}
	return review, nil
}

// CreateReview rejects a second review of the same product by the same user.
// The unique index backs the pre-check when two requests race.
func (s *ReviewService) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}

	errs := map[string]string{}
	product, err := s.productRepo.GetByIDs(ctx, []uint{in.ProductID})
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if len(product) == 0 {
		errs["product"] = fmt.Sprintf("Invalid pk %d - object does not exist.", in.ProductID)
	}
	user, err := s.userRepo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if user == nil {
		errs["user"] = fmt.Sprintf("Invalid pk %d - object does not exist.", in.UserID)
	}
	if len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	exists, err := s.reviewRepo.Exists(ctx, in.ProductID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return s.GetReview(ctx, review.ID)
}

func (s *ReviewService) UpdateReview(ctx context.Context, id uint, patch ReviewPatch) (*models.Review, error) {
	if errs := helpers.Validate(patch); errs != nil {
		return nil, NewValidationError(errs)
	}
	review, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		review.Comment = *patch.Comment
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	if _, err := s.GetReview(ctx, id); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, id)
}

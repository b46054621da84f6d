package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
)

type CustomerService struct {
	userRepo  repositories.UserRepositoryImpl
	orderRepo repositories.OrderRepository
}

func NewCustomerService(userRepo repositories.UserRepositoryImpl, orderRepo repositories.OrderRepository) *CustomerService {
	return &CustomerService{userRepo: userRepo, orderRepo: orderRepo}
}

func (s *CustomerService) ListCustomers(ctx context.Context, params repositories.ListParams) ([]models.User, int64, error) {
	return s.userRepo.ListCustomers(ctx, params)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if user == nil {
		return nil, notFound("customer", id)
	}
	return user, nil
}

// CustomerOrders returns the customer's orders, newest first.
func (s *CustomerService) CustomerOrders(ctx context.Context, id uint) ([]models.Order, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	orders, _, err := s.orderRepo.List(ctx, repositories.OrderFilter{UserID: &id})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ToggleActive flips the customer's is_active flag and returns the updated user.
func (s *CustomerService) ToggleActive(ctx context.Context, id uint) (*models.User, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	if err := s.userRepo.ToggleActive(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to toggle customer: %w", err)
	}

	user, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Printf("CustomerService.ToggleActive: customer %d is_active=%t", id, user.IsActive)
	return user, nil
}

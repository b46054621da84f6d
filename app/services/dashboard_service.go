package services

import (
	"context"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
)

const (
	recentOrdersLimit = 10
	topProductsLimit  = 5
)

type DashboardService struct {
	dashboardRepo repositories.DashboardRepository
	orderRepo     repositories.OrderRepository
	productRepo   repositories.ProductRepositoryImpl
}

func NewDashboardService(dashboardRepo repositories.DashboardRepository, orderRepo repositories.OrderRepository, productRepo repositories.ProductRepositoryImpl) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo, orderRepo: orderRepo, productRepo: productRepo}
}

func (s *DashboardService) Overview(ctx context.Context) (repositories.DashboardOverview, error) {
	return s.dashboardRepo.Overview(ctx)
}

func (s *DashboardService) RecentOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.Recent(ctx, recentOrdersLimit)
}

func (s *DashboardService) TopProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.TopOrdered(ctx, topProductsLimit)
}

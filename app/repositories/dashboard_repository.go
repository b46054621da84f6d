package repositories

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardOverview struct {
	TotalProducts    int64           `json:"total_products"`
	TotalOrders      int64           `json:"total_orders"`
	TotalCustomers   int64           `json:"total_customers"`
	TotalReviews     int64           `json:"total_reviews"`
	CompletedOrders  int64           `json:"completed_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	FeaturedProducts int64           `json:"featured_products"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

type DashboardRepository interface {
	Overview(ctx context.Context) (DashboardOverview, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) Overview(ctx context.Context) (DashboardOverview, error) {
	var row struct {
		TotalProducts    int64
		TotalOrders      int64
		TotalCustomers   int64
		TotalReviews     int64
		CompletedOrders  int64
		PendingOrders    int64
		FeaturedProducts int64
		TotalRevenue     decimal.NullDecimal
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM products) AS total_products,
			(SELECT COUNT(*) FROM orders) AS total_orders,
			(SELECT COUNT(*) FROM users WHERE is_staff = ?) AS total_customers,
			(SELECT COUNT(*) FROM reviews) AS total_reviews,
			(SELECT COUNT(*) FROM orders WHERE complete = ?) AS completed_orders,
			(SELECT COUNT(*) FROM orders WHERE complete = ?) AS pending_orders,
			(SELECT COUNT(*) FROM products WHERE is_featured = ?) AS featured_products,
			(`+completedRevenueSQL+`) AS total_revenue`,
		false, true, false, true, true,
	).Scan(&row).Error
	if err != nil {
		return DashboardOverview{}, fmt.Errorf("failed to compute dashboard overview: %w", err)
	}

	return DashboardOverview{
		TotalProducts:    row.TotalProducts,
		TotalOrders:      row.TotalOrders,
		TotalCustomers:   row.TotalCustomers,
		TotalReviews:     row.TotalReviews,
		CompletedOrders:  row.CompletedOrders,
		PendingOrders:    row.PendingOrders,
		FeaturedProducts: row.FeaturedProducts,
		TotalRevenue:     row.TotalRevenue.Decimal.Round(2),
	}, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	ListParams
	Complete *bool
	Status   string
	UserID   *uint
}

type OrderStats struct {
	TotalOrders     int64           `json:"total_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	Update(ctx context.Context, tx *gorm.DB, order *models.Order) error
	TransitionStatus(ctx context.Context, tx *gorm.DB, id uint, from, to string) (bool, error)
	SetPaid(ctx context.Context, tx *gorm.DB, id uint, paid bool) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	Statistics(ctx context.Context) (OrderStats, error)
	Recent(ctx context.Context, limit int) ([]models.Order, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

var orderOrdering = orderingFields{"date_ordered": "orders.date_ordered", "id": "orders.id"}

// completedRevenueSQL values each line at its snapshot price, falling back to the
// product's effective price for lines recorded without one.
const completedRevenueSQL = `
	SELECT COALESCE(SUM(oi.quantity * COALESCE(
		oi.price_at_order,
		CASE WHEN p.sale_price IS NOT NULL AND p.sale_price >= 0 AND p.sale_price < p.regular_price
			THEN p.sale_price ELSE p.regular_price END,
		0)), 0)
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	LEFT JOIN products p ON p.id = oi.product_id
	WHERE o.complete = ?`

func (r *gormOrderRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product").
		Preload("ShippingAddress")
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order

	err := r.withRelations(r.db.WithContext(ctx)).First(&order, "orders.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Joins("LEFT JOIN users ON users.id = orders.user_id")
	if filter.Complete != nil {
		q = q.Where("orders.complete = ?", *filter.Complete)
	}
	if filter.Status != "" {
		q = q.Where("orders.status = ?", filter.Status)
	}
	if filter.UserID != nil {
		q = q.Where("orders.user_id = ?", *filter.UserID)
	}
	q = applySearch(q, filter.Search,
		"users.email", "users.first_name", "users.last_name", "orders.transaction_id", "orders.order_code",
	).Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	q = applyOrdering(q, filter.Ordering, orderOrdering, "orders.date_ordered DESC, orders.id DESC")
	if err := r.withRelations(applyPage(q.Select("orders.*"), filter.ListParams)).Find(&orders).Error; err != nil {
		log.Printf("OrderRepository.List: failed to list orders: %v", err)
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// Update never touches date_ordered, status or completion; those move only
// through TransitionStatus.
func (r *gormOrderRepository) Update(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(order).
		Select("user_id", "transaction_id", "delivery_person", "order_type", "contact_value", "is_paid").
		Updates(order).Error
}

// TransitionStatus moves the order only if it is still in from. It reports false
// when another writer changed the status first.
func (r *gormOrderRepository) TransitionStatus(ctx context.Context, tx *gorm.DB, id uint, from, to string) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":   to,
			"complete": to == models.OrderStatusDelivered,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormOrderRepository) SetPaid(ctx context.Context, tx *gorm.DB, id uint, paid bool) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status <> ?", id, models.OrderStatusCancelled).
		Update("is_paid", paid)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update payment flag: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormOrderRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return conn(r.db, tx).WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
}

func (r *gormOrderRepository) Statistics(ctx context.Context) (OrderStats, error) {
	var row struct {
		TotalOrders     int64
		CompletedOrders int64
		PendingOrders   int64
		TotalRevenue    decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM orders) AS total_orders,
			(SELECT COUNT(*) FROM orders WHERE complete = ?) AS completed_orders,
			(SELECT COUNT(*) FROM orders WHERE complete = ?) AS pending_orders,
			(`+completedRevenueSQL+`) AS total_revenue`,
		true, false, true,
	).Scan(&row).Error
	if err != nil {
		return OrderStats{}, fmt.Errorf("failed to compute order statistics: %w", err)
	}

	return OrderStats{
		TotalOrders:     row.TotalOrders,
		CompletedOrders: row.CompletedOrders,
		PendingOrders:   row.PendingOrders,
		TotalRevenue:    row.TotalRevenue.Decimal.Round(2),
	}, nil
}

func (r *gormOrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.withRelations(r.db.WithContext(ctx)).
		Order("orders.date_ordered DESC, orders.id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}
	return orders, nil
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderLineInput struct {
	ProductID   uint   `json:"product" validate:"required"`
	Quantity    int    `json:"quantity" validate:"min=1"`
	VariantInfo string `json:"variant_info" validate:"max=100"`
}

type ShippingInput struct {
	Address string `json:"address" validate:"required,max=255"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	Zipcode string `json:"zipcode" validate:"max=20"`
	Phone   string `json:"phone" validate:"max=20"`
}

func (in *ShippingInput) toModel() *models.ShippingAddress {
	return &models.ShippingAddress{
		Address: strings.TrimSpace(in.Address),
		City:    in.City,
		State:   in.State,
		Zipcode: in.Zipcode,
		Phone:   in.Phone,
	}
}

type OrderInput struct {
	UserID         *uint            `json:"customer"`
	TransactionID  string           `json:"transaction_id" validate:"max=100"`
	DeliveryPerson string           `json:"delivery_person" validate:"max=100"`
	OrderType      string           `json:"order_type" validate:"omitempty,oneof=whatsapp email"`
	ContactValue   string           `json:"contact_value" validate:"max=255"`
	IsPaid         bool             `json:"is_paid"`
	Items          []OrderLineInput `json:"items" validate:"required,min=1,dive"`
	Shipping       *ShippingInput   `json:"shipping_address"`
}

// OrderPatch updates order metadata. Lines are fixed once the order exists.
type OrderPatch struct {
	UserID         helpers.Optional[uint] `json:"customer"`
	TransactionID  *string                `json:"transaction_id" validate:"omitempty,max=100"`
	DeliveryPerson *string                `json:"delivery_person" validate:"omitempty,max=100"`
	OrderType      *string                `json:"order_type" validate:"omitempty,oneof=whatsapp email"`
	ContactValue   *string                `json:"contact_value" validate:"omitempty,max=255"`
	IsPaid         *bool                  `json:"is_paid"`
	Status         *string                `json:"status"`
	Shipping       *ShippingInput         `json:"shipping_address"`
}

type OrderService struct {
	db            *gorm.DB
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	addressRepo   repositories.ShippingAddressRepository
	productRepo   repositories.ProductRepositoryImpl
	userRepo      repositories.UserRepositoryImpl
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	addressRepo repositories.ShippingAddressRepository,
	productRepo repositories.ProductRepositoryImpl,
	userRepo repositories.UserRepositoryImpl,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		addressRepo:   addressRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
	}
}

func (s *OrderService) ListOrders(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(ctx, filter)
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, notFound("order", id)
	}
	return order, nil
}

// CreateOrder records the order with each line's price frozen at the product's
// current effective price.
func (s *OrderService) CreateOrder(ctx context.Context, in OrderInput) (*models.Order, error) {
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}
	if err := s.checkCustomer(ctx, in.UserID); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(in.Items))
	for _, line := range in.Items {
		ids = append(ids, line.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, fieldError("items", fmt.Sprintf("Invalid pk %d - product does not exist.", line.ProductID))
		}
		items = append(items, snapshotLine(product, line.Quantity, line.VariantInfo))
	}

	order := &models.Order{
		UserID:         in.UserID,
		TransactionID:  in.TransactionID,
		DeliveryPerson: in.DeliveryPerson,
		OrderType:      in.OrderType,
		ContactValue:   in.ContactValue,
		IsPaid:         in.IsPaid,
	}

	var shipping *models.ShippingAddress
	if in.Shipping != nil {
		shipping = in.Shipping.toModel()
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.persistOrder(ctx, tx, order, items, shipping)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("OrderService.CreateOrder: created order %s with %d line(s)", order.OrderCode, len(items))
	return s.GetOrder(ctx, order.ID)
}

func snapshotLine(product *models.Product, quantity int, variant string) models.OrderItem {
	productID := product.ID
	return models.OrderItem{
		ProductID:    &productID,
		ProductName:  product.Name,
		ProductSKU:   product.SKUValue(),
		Quantity:     quantity,
		PriceAtOrder: decimal.NewNullDecimal(product.EffectivePrice()),
		VariantInfo:  variant,
	}
}

// persistOrder writes an order with its lines and address inside tx.
func (s *OrderService) persistOrder(ctx context.Context, tx *gorm.DB, order *models.Order, items []models.OrderItem, shipping *models.ShippingAddress) error {
	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.orderItemRepo.BulkCreate(ctx, tx, items); err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}
	if shipping != nil {
		shipping.OrderID = &order.ID
		shipping.UserID = order.UserID
		if err := s.addressRepo.Create(ctx, tx, shipping); err != nil {
			return fmt.Errorf("failed to create shipping address: %w", err)
		}
	}
	return nil
}

func (s *OrderService) checkCustomer(ctx context.Context, userID *uint) error {
	if userID == nil {
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, *userID)
	if err != nil {
		return fmt.Errorf("failed to check customer: %w", err)
	}
	if user == nil {
		return fieldError("customer", fmt.Sprintf("Invalid pk %d - object does not exist.", *userID))
	}
	return nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uint, patch OrderPatch) (*models.Order, error) {
	if errs := helpers.Validate(patch); errs != nil {
		return nil, NewValidationError(errs)
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.UserID.Set {
		if err := s.checkCustomer(ctx, patch.UserID.Ptr()); err != nil {
			return nil, err
		}
		order.UserID = patch.UserID.Ptr()
	}
	if patch.TransactionID != nil {
		order.TransactionID = *patch.TransactionID
	}
	if patch.DeliveryPerson != nil {
		order.DeliveryPerson = *patch.DeliveryPerson
	}
	if patch.OrderType != nil {
		order.OrderType = *patch.OrderType
	}
	if patch.ContactValue != nil {
		order.ContactValue = *patch.ContactValue
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		if patch.Status != nil && *patch.Status != order.Status {
			if err := s.transition(ctx, tx, order, *patch.Status); err != nil {
				return err
			}
		}
		if patch.IsPaid != nil {
			if *patch.IsPaid != order.IsPaid && order.Status == models.OrderStatusCancelled {
				return fmt.Errorf("%w: a cancelled order cannot change payment state", ErrInvalidTransition)
			}
			order.IsPaid = *patch.IsPaid
		}
		if err := s.orderRepo.Update(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if patch.Shipping != nil {
			return s.replaceShipping(ctx, tx, order, patch.Shipping)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *OrderService) replaceShipping(ctx context.Context, tx *gorm.DB, order *models.Order, in *ShippingInput) error {
	if errs := helpers.Validate(in); errs != nil {
		return NewValidationError(errs)
	}
	address := in.toModel()
	if order.ShippingAddress != nil {
		address.ID = order.ShippingAddress.ID
		address.DateAdded = order.ShippingAddress.DateAdded
	}
	address.OrderID = &order.ID
	address.UserID = order.UserID
	if address.ID == 0 {
		return s.addressRepo.Create(ctx, tx, address)
	}
	return s.addressRepo.Update(ctx, tx, address)
}

// UpdateStatus moves an order through its lifecycle. Setting the current status
// again is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fieldError("status", fmt.Sprintf("%q is not a valid choice.", status))
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	if err := s.transition(ctx, nil, order, status); err != nil {
		return nil, err
	}
	log.Printf("OrderService.UpdateStatus: order %s moved to %s", order.OrderCode, status)
	return s.GetOrder(ctx, id)
}

func (s *OrderService) transition(ctx context.Context, tx *gorm.DB, order *models.Order, to string) error {
	if !models.IsValidOrderStatus(to) {
		return fieldError("status", fmt.Sprintf("%q is not a valid choice.", to))
	}
	if !models.CanTransitionOrder(order.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}

	ok, err := s.orderRepo.TransitionStatus(ctx, tx, order.ID, order.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: order %d was modified concurrently", ErrInvalidTransition, order.ID)
	}
	order.Status = to
	order.Complete = to == models.OrderStatusDelivered
	return nil
}

func (s *OrderService) SetPaid(ctx context.Context, id uint, paid bool) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: a cancelled order cannot change payment state", ErrInvalidTransition)
	}
	ok, err := s.orderRepo.SetPaid(ctx, nil, id, paid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %d was cancelled concurrently", ErrInvalidTransition, id)
	}
	return s.GetOrder(ctx, id)
}

// DeleteOrder removes the order along with its lines and shipping address.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	return withTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.orderItemRepo.DeleteByOrder(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := s.addressRepo.DeleteByOrder(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete shipping address: %w", err)
		}
		return s.orderRepo.Delete(ctx, tx, id)
	})
}

func (s *OrderService) Statistics(ctx context.Context) (repositories.OrderStats, error) {
	return s.orderRepo.Statistics(ctx)
}

func (s *OrderService) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	return s.orderRepo.Recent(ctx, limit)
}

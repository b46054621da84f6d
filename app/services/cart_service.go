package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"gorm.io/gorm"
)

type AddCartItemInput struct {
	UserID    *uint  `json:"user_id"`
	SessionID string `json:"session_id" validate:"max=64"`
	ProductID uint   `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Size      string `json:"size" validate:"max=50"`
	Sleeve    string `json:"sleeve" validate:"max=50"`
}

type CheckoutInput struct {
	Shipping     *ShippingInput `json:"shipping_address"`
	OrderType    string         `json:"order_type" validate:"omitempty,oneof=whatsapp email"`
	ContactValue string         `json:"contact_value" validate:"max=255"`
}

type CartService struct {
	db           *gorm.DB
	cartRepo     repositories.CartRepository
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	userRepo     repositories.UserRepositoryImpl
	orders       *OrderService
}

func NewCartService(
	db *gorm.DB,
	cartRepo repositories.CartRepository,
	cartItemRepo repositories.CartItemRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	userRepo repositories.UserRepositoryImpl,
	orders *OrderService,
) *CartService {
	return &CartService{
		db:           db,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		orders:       orders,
	}
}

func (s *CartService) ListCarts(ctx context.Context, params repositories.ListParams) ([]models.Cart, int64, error) {
	return s.cartRepo.List(ctx, params)
}

func (s *CartService) GetCart(ctx context.Context, id uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCartWithItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return nil, notFound("cart", id)
	}
	return cart, nil
}

// AddItem puts a product into the owner's basket, merging with an existing line
// for the same size and sleeve.
func (s *CartService) AddItem(ctx context.Context, in AddCartItemInput) (*models.Cart, error) {
	in.SessionID = strings.TrimSpace(in.SessionID)
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}
	if in.UserID == nil && in.SessionID == "" {
		return nil, fieldError("user_id", "Either user_id or session_id is required.")
	}

	if in.UserID != nil {
		user, err := s.userRepo.FindByID(ctx, *in.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return nil, fieldError("user_id", fmt.Sprintf("Invalid pk %d - object does not exist.", *in.UserID))
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, []uint{in.ProductID})
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if len(products) == 0 {
		return nil, fieldError("product_id", fmt.Sprintf("Invalid pk %d - object does not exist.", in.ProductID))
	}
	if products[0].Status != models.ProductStatusActive {
		return nil, fieldError("product_id", "Product is not available.")
	}

	var cart *models.Cart
	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		cart, err = s.cartRepo.FindOrCreate(ctx, tx, in.UserID, in.SessionID)
		if err != nil {
			return err
		}
		if _, err := s.cartRepo.LockWithItems(ctx, tx, cart.ID); err != nil {
			return fmt.Errorf("failed to lock cart: %w", err)
		}

		item, err := s.cartItemRepo.FindVariant(ctx, tx, cart.ID, in.ProductID, in.Size, in.Sleeve)
		if err != nil {
			return fmt.Errorf("failed to check existing cart item: %w", err)
		}
		if item != nil {
			err = s.cartItemRepo.IncrementQuantity(ctx, tx, item.ID, in.Quantity)
		} else {
			err = s.cartItemRepo.Add(ctx, tx, &models.CartItem{
				CartID:    cart.ID,
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				Size:      in.Size,
				Sleeve:    in.Sleeve,
			})
		}
		if err != nil {
			return fmt.Errorf("failed to save cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, cart.ID)
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uint) (*models.Cart, error) {
	if _, err := s.GetCart(ctx, cartID); err != nil {
		return nil, err
	}
	removed, err := s.cartItemRepo.Delete(ctx, cartID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if !removed {
		return nil, notFound("cart item", itemID)
	}
	return s.GetCart(ctx, cartID)
}

// Checkout converts the basket into an order, freezing the current prices, and
// deletes the basket in the same transaction.
func (s *CartService) Checkout(ctx context.Context, cartID uint, in CheckoutInput) (*models.Order, error) {
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}
	if in.Shipping != nil {
		if errs := helpers.Validate(in.Shipping); errs != nil {
			return nil, NewValidationError(errs)
		}
	}

	var shipping *models.ShippingAddress
	if in.Shipping != nil {
		shipping = in.Shipping.toModel()
	}

	var order *models.Order
	err := withTx(ctx, s.db, func(tx *gorm.DB) error {
		cart, err := s.cartRepo.LockWithItems(ctx, tx, cartID)
		if err != nil {
			return fmt.Errorf("failed to lock cart: %w", err)
		}
		if cart == nil {
			return notFound("cart", cartID)
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, ci := range cart.Items {
			if ci.Product == nil {
				continue
			}
			items = append(items, snapshotLine(ci.Product, ci.Quantity, ci.VariantInfo()))
		}
		if len(items) == 0 {
			return fieldError("items", "Cart is empty.")
		}

		order = &models.Order{
			UserID:       cart.UserID,
			OrderType:    in.OrderType,
			ContactValue: in.ContactValue,
		}
		if err := s.orders.persistOrder(ctx, tx, order, items, shipping); err != nil {
			return err
		}
		deleted, err := s.cartRepo.Delete(ctx, tx, cart.ID)
		if err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
		if !deleted {
			return notFound("cart", cartID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("CartService.Checkout: cart %d became order %s", cartID, order.OrderCode)
	return s.orders.GetOrder(ctx, order.ID)
}

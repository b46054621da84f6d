package seeders

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/Rakhulsr/go-storeadmin/app/db/fakers"
	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"gorm.io/gorm"
)

// CustomerPassword is the password given to every seeded customer.
const CustomerPassword = "password123"

type Options struct {
	Categories int
	Products   int
	Customers  int
	Orders     int
}

type Result struct {
	Categories int
	Products   int
	Customers  int
	Orders     int
}

// DBSeed fills an empty or existing database with demo data. Orders go through
// the order service so their prices are snapshotted and their status history
// follows the lifecycle.
func DBSeed(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	var res Result

	categories, err := seedCategories(ctx, db, opts.Categories)
	if err != nil {
		return res, err
	}
	res.Categories = len(categories)

	products, err := seedProducts(ctx, db, categories, opts.Products)
	if err != nil {
		return res, err
	}
	res.Products = len(products)

	customers, err := seedCustomers(ctx, db, opts.Customers)
	if err != nil {
		return res, err
	}
	res.Customers = len(customers)

	if opts.Orders > 0 && len(products) > 0 {
		res.Orders, err = seedOrders(ctx, db, products, customers, opts.Orders)
		if err != nil {
			return res, err
		}
	}

	log.Printf("DBSeed: ✅ seeded %d categories, %d products, %d customers, %d orders",
		res.Categories, res.Products, res.Customers, res.Orders)
	return res, nil
}

func seedCategories(ctx context.Context, db *gorm.DB, n int) ([]models.Category, error) {
	if n > len(fakers.CategoryNames) {
		n = len(fakers.CategoryNames)
	}
	categories := make([]models.Category, 0, n)
	for _, name := range fakers.CategoryNames[:n] {
		category := models.Category{Name: name}
		if err := db.WithContext(ctx).Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return nil, fmt.Errorf("failed to seed category %q: %w", name, err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func seedProducts(ctx context.Context, db *gorm.DB, categories []models.Category, n int) ([]*models.Product, error) {
	products := make([]*models.Product, 0, n)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < n; i++ {
			var category *models.Category
			if len(categories) > 0 {
				category = &categories[rand.Intn(len(categories))]
			}
			product := fakers.ProductFaker(category)
			if err := tx.Omit("Images", "Category").Create(product).Error; err != nil {
				return fmt.Errorf("failed to seed product %q: %w", product.Name, err)
			}
			products = append(products, product)
		}
		return nil
	})
	return products, err
}

func seedCustomers(ctx context.Context, db *gorm.DB, n int) ([]*models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hash, err := helpers.HashPassword(CustomerPassword)
	if err != nil {
		return nil, err
	}
	customers := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		customer := fakers.CustomerFaker(hash)
		if err := db.WithContext(ctx).Create(customer).Error; err != nil {
			return nil, fmt.Errorf("failed to seed customer %s: %w", customer.Email, err)
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func seedOrders(ctx context.Context, db *gorm.DB, products []*models.Product, customers []*models.User, n int) (int, error) {
	productRepo := repositories.NewProductRepository(db)
	userRepo := repositories.NewUserRepository(db)
	orders := services.NewOrderService(db, repositories.NewOrderRepository(db), repositories.NewOrderItemRepository(db),
		repositories.NewShippingAddressRepository(db), productRepo, userRepo)

	created := 0
	for i := 0; i < n; i++ {
		in := services.OrderInput{
			OrderType:      models.OrderTypeWhatsApp,
			DeliveryPerson: []string{"", "Charlie", "Diana"}[rand.Intn(3)],
		}
		if len(customers) > 0 {
			customer := customers[rand.Intn(len(customers))]
			in.UserID = &customer.ID
			in.ContactValue = customer.Email
			in.OrderType = models.OrderTypeEmail
			if customer.Profile != nil && customer.Profile.Address != "" {
				in.Shipping = &services.ShippingInput{
					Address: customer.Profile.Address,
					City:    customer.Profile.City,
					State:   customer.Profile.State,
					Zipcode: customer.Profile.Zipcode,
					Phone:   customer.Profile.PhoneNumber,
				}
			}
		}
		for _, idx := range rand.Perm(len(products))[:1+rand.Intn(min(3, len(products)))] {
			in.Items = append(in.Items, services.OrderLineInput{
				ProductID:   products[idx].ID,
				Quantity:    1 + rand.Intn(3),
				VariantInfo: products[idx].Size + " / " + products[idx].Sleeve,
			})
		}

		order, err := orders.CreateOrder(ctx, in)
		if err != nil {
			return created, fmt.Errorf("failed to seed order: %w", err)
		}
		created++

		if err := advance(ctx, orders, order.ID, models.OrderStatuses[rand.Intn(len(models.OrderStatuses))]); err != nil {
			return created, err
		}
	}
	return created, nil
}

// advance walks an order from pending to target one legal step at a time.
func advance(ctx context.Context, orders *services.OrderService, id uint, target string) error {
	switch target {
	case models.OrderStatusPending:
		return nil
	case models.OrderStatusCancelled:
		_, err := orders.UpdateStatus(ctx, id, target)
		return err
	}
	for _, status := range models.OrderStatuses[1:] {
		if _, err := orders.UpdateStatus(ctx, id, status); err != nil {
			return fmt.Errorf("failed to move order %d to %s: %w", id, status, err)
		}
		if status == models.OrderStatusDelivered {
			if _, err := orders.SetPaid(ctx, id, true); err != nil {
				return err
			}
		}
		if status == target {
			break
		}
	}
	return nil
}

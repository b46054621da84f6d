// Package testdb opens throwaway sqlite databases for package tests.
package testdb

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/models/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const Password = "s3cret-pass"

// Open returns a migrated database stored under t.TempDir.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storeadmin.db")
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func hashed(t testing.TB) string {
	t.Helper()
	hash, err := helpers.HashPassword(Password)
	require.NoError(t, err)
	return hash
}

func createUser(t testing.TB, db *gorm.DB, email string, staff, active bool) *models.User {
	t.Helper()
	user := &models.User{Email: email, FirstName: "Test", LastName: "User", Password: hashed(t), IsStaff: staff}
	require.NoError(t, db.Create(user).Error)
	// is_active has a database default, so false must be written explicitly.
	if !active {
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
	}
	user.IsActive = active
	return user
}

func Customer(t testing.TB, db *gorm.DB, email string) *models.User {
	return createUser(t, db, email, false, true)
}

func Staff(t testing.TB, db *gorm.DB, email string) *models.User {
	return createUser(t, db, email, true, true)
}

func DisabledStaff(t testing.TB, db *gorm.DB, email string) *models.User {
	return createUser(t, db, email, true, false)
}

func Category(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// Product inserts an active product. An empty sale price means none.
func Product(t testing.TB, db *gorm.DB, name, regular, sale string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		RegularPrice:  decimal.RequireFromString(regular),
		StockQuantity: 10,
		Status:        models.ProductStatusActive,
	}
	if sale != "" {
		product.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString(sale))
	}
	require.NoError(t, db.Omit("Images", "Category").Create(product).Error)
	return product
}

func Products(t testing.TB, db *gorm.DB, n int) []*models.Product {
	t.Helper()
	products := make([]*models.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, Product(t, db, fmt.Sprintf("Product %02d", i), "10.00", ""))
	}
	return products
}

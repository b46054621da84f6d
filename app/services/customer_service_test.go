package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storeadmin/app/db/testdb"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleActiveFlipsTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testdb.Customer(t, f.db, "c@example.com")

	user, err := f.customers.ToggleActive(ctx, customer.ID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	user, err = f.customers.ToggleActive(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestCustomersExcludeStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := testdb.Staff(t, f.db, "admin@example.com")
	testdb.Customer(t, f.db, "alice@example.com")
	testdb.Customer(t, f.db, "bob@example.com")

	customers, total, err := f.customers.ListCustomers(ctx, repositories.ListParams{Ordering: "email"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, customers, 2)
	assert.Equal(t, "alice@example.com", customers[0].Email)

	_, err = f.customers.GetCustomer(ctx, staff.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.customers.ToggleActive(ctx, staff.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testdb.Customer(t, f.db, "c@example.com")
	product := testdb.Product(t, f.db, "Tee", "25.00", "")

	_, err := f.orders.CreateOrder(ctx, OrderInput{
		UserID: &customer.ID,
		Items:  []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	orders, err := f.customers.CustomerOrders(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

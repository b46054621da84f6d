package seeders

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storeadmin/app/db/testdb"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBSeed(t *testing.T) {
	db := testdb.Open(t)

	res, err := DBSeed(context.Background(), db, Options{Categories: 3, Products: 8, Customers: 2, Orders: 5})
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 3, Products: 8, Customers: 2, Orders: 5}, res)

	var orders []models.Order
	require.NoError(t, db.Preload("Items").Find(&orders).Error)
	require.Len(t, orders, 5)
	for _, o := range orders {
		assert.NotEmpty(t, o.Items)
		assert.Equal(t, o.Status == models.OrderStatusDelivered, o.Complete)
		for _, item := range o.Items {
			assert.True(t, item.PriceAtOrder.Valid, "line %d has no price snapshot", item.ID)
		}
	}

	// Categories are reused on a second run.
	_, err = DBSeed(context.Background(), db, Options{Categories: 3})
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storeadmin/app/db/testdb"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateReviewIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testdb.Customer(t, f.db, "fan@example.com")
	product := testdb.Product(t, f.db, "Tee", "25.00", "")

	first, err := f.reviews.CreateReview(ctx, ReviewInput{ProductID: product.ID, UserID: user.ID, Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", first.User.Email)

	_, err = f.reviews.CreateReview(ctx, ReviewInput{ProductID: product.ID, UserID: user.ID, Rating: 1, Comment: "Changed my mind"})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	stored, err := f.reviews.GetReview(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Rating)
	assert.Equal(t, "Great", stored.Comment)
}

func TestReviewValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testdb.Customer(t, f.db, "fan@example.com")

	_, err := f.reviews.CreateReview(ctx, ReviewInput{ProductID: 77, UserID: user.ID, Rating: 3})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "product")

	product := testdb.Product(t, f.db, "Tee", "25.00", "")
	_, err = f.reviews.CreateReview(ctx, ReviewInput{ProductID: product.ID, UserID: user.ID, Rating: 6})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "rating")
}

func TestUpdateAndFilterReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := testdb.Product(t, f.db, "Tee", "25.00", "")
	a := testdb.Customer(t, f.db, "a@example.com")
	b := testdb.Customer(t, f.db, "b@example.com")

	ra, err := f.reviews.CreateReview(ctx, ReviewInput{ProductID: product.ID, UserID: a.ID, Rating: 4})
	require.NoError(t, err)
	_, err = f.reviews.CreateReview(ctx, ReviewInput{ProductID: product.ID, UserID: b.ID, Rating: 2})
	require.NoError(t, err)

	rating := 2
	updated, err := f.reviews.UpdateReview(ctx, ra.ID, ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)

	reviews, total, err := f.reviews.ListReviews(ctx, repositories.ReviewFilter{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reviews, 2)

	require.NoError(t, f.reviews.DeleteReview(ctx, ra.ID))
	_, err = f.reviews.GetReview(ctx, ra.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

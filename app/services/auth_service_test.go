package services

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/db/testdb"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginChecksCredentialsThenRoleThenActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testdb.Staff(t, f.db, "admin@example.com")
	testdb.Customer(t, f.db, "shopper@example.com")
	testdb.DisabledStaff(t, f.db, "former@example.com")

	cases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"wrong password", "admin@example.com", "nope", ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", testdb.Password, ErrInvalidCredentials},
		{"customer", "shopper@example.com", testdb.Password, ErrAccessDenied},
		{"disabled staff", "former@example.com", testdb.Password, ErrAccountDisabled},
		{"missing email", "", testdb.Password, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.auth.Login(ctx, LoginInput{Email: tc.email, Password: tc.password})
			assert.ErrorIs(t, err, tc.want)
		})
	}

	pair, user, err := f.auth.Login(ctx, LoginInput{Email: "ADMIN@example.com", Password: testdb.Password})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestAuthenticateAcceptsOnlyAccessTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testdb.Staff(t, f.db, "admin@example.com")

	pair, _, err := f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)

	user, claims, err := f.auth.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	_, _, err = f.auth.Authenticate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = f.auth.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testdb.Staff(t, f.db, "admin@example.com")

	pair, _, err := f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)

	f.auth.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	_, _, err = f.auth.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testdb.Staff(t, f.db, "admin@example.com")

	pair, _, err := f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(admin).Update("is_active", false).Error)

	_, _, err = f.auth.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testdb.Staff(t, f.db, "admin@example.com")

	pair, _, err := f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)

	rotated, err := f.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.auth.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testdb.Staff(t, f.db, "admin@example.com")

	pair, _, err := f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, pair.RefreshToken))
	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateStaffUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.CreateStaffUser(ctx, CreateStaffInput{Email: " Boss@Example.com ", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com", user.Email)
	assert.True(t, user.IsStaff)

	_, err = f.auth.CreateStaffUser(ctx, CreateStaffInput{Email: "boss@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = f.auth.Login(ctx, LoginInput{Email: "boss@example.com", Password: "longenough"})
	assert.NoError(t, err)
}

func TestLogoutAllRevokesEveryRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testdb.Staff(t, f.db, "admin@example.com")

	first, _, err := f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)
	second, _, err := f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)

	require.NoError(t, f.auth.LogoutAll(ctx, admin.ID))

	for _, pair := range []*TokenPair{first, second} {
		_, err = f.auth.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestPruneTokensDeletesOnlyExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testdb.Staff(t, f.db, "admin@example.com")

	_, _, err := f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)

	later := time.Now().UTC().Add(2 * time.Hour)
	f.auth.now = func() time.Time { return later }
	_, _, err = f.auth.Login(ctx, LoginInput{Email: admin.Email, Password: testdb.Password})
	require.NoError(t, err)

	n, err := f.auth.PruneTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var left int64
	require.NoError(t, f.db.Model(&models.RefreshToken{}).Count(&left).Error)
	assert.EqualValues(t, 1, left)
}

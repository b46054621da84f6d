package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	tokenIssuer = "storeadmin"
)

type TokenClaims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateStaffInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	IsSuperuser bool   `json:"is_superuser"`
}

type AuthConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthService struct {
	db        *gorm.DB
	userRepo  repositories.UserRepositoryImpl
	tokenRepo repositories.RefreshTokenRepository
	cfg       AuthConfig
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, userRepo repositories.UserRepositoryImpl, tokenRepo repositories.RefreshTokenRepository, cfg AuthConfig) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 60 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CheckCredentials authenticates a management user. The order of checks is
// credentials, then role, then the active flag.
func (s *AuthService) CheckCredentials(ctx context.Context, in LoginInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(in.Password)) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsAdmin() {
		log.Printf("AuthService.CheckCredentials: non-staff login attempt for user %d", user.ID)
		return nil, ErrAccessDenied
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenPair, *models.User, error) {
	user, err := s.CheckCredentials(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	var pair *TokenPair
	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		pair, _, err = s.issuePair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("AuthService.Login: user %d logged in", user.ID)
	return pair, user, nil
}

// Refresh exchanges a refresh token for a new pair. Each refresh token works
// once; replaying it fails with ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if err := checkAdmin(user); err != nil {
		return nil, err
	}

	var pair *TokenPair
	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		var (
			newJTI string
			err    error
		)
		pair, newJTI, err = s.issuePair(ctx, tx, user)
		if err != nil {
			return err
		}
		consumed, err := s.tokenRepo.Consume(ctx, tx, claims.ID, newJTI, s.now())
		if err != nil {
			return err
		}
		if !consumed {
			return fmt.Errorf("%w: refresh token already used or revoked", ErrInvalidToken)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the given refresh token. Unknown or used tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return err
	}
	_, err = s.tokenRepo.Consume(ctx, nil, claims.ID, "", s.now())
	return err
}

// LogoutAll revokes every live refresh token of the user. Access tokens already
// issued stay valid until they expire.
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.tokenRepo.RevokeAllForUser(ctx, userID, s.now()); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	log.Printf("AuthService.LogoutAll: revoked refresh tokens of user %d", userID)
	return nil
}

// PruneTokens deletes refresh token records that can no longer be used.
func (s *AuthService) PruneTokens(ctx context.Context) (int64, error) {
	n, err := s.tokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to prune refresh tokens: %w", err)
	}
	return n, nil
}

// Authenticate resolves an access token to an active management user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, *TokenClaims, error) {
	claims, err := s.parse(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidToken
	}
	if err := checkAdmin(user); err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *AuthService) UserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}

func checkAdmin(user *models.User) error {
	if !user.IsAdmin() {
		return ErrAccessDenied
	}
	if !user.IsActive {
		return ErrAccountDisabled
	}
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, tx *gorm.DB, user *models.User) (*TokenPair, string, error) {
	now := s.now()

	access, _, err := s.sign(user, TokenTypeAccess, now, s.cfg.AccessTTL)
	if err != nil {
		return nil, "", err
	}
	refresh, jti, err := s.sign(user, TokenTypeRefresh, now, s.cfg.RefreshTTL)
	if err != nil {
		return nil, "", err
	}

	record := &models.RefreshToken{
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
	}
	if err := s.tokenRepo.Create(ctx, tx, record); err != nil {
		return nil, "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, jti, nil
}

func (s *AuthService) sign(user *models.User, tokenType string, now time.Time, ttl time.Duration) (string, string, error) {
	jti := uuid.NewString()
	claims := &TokenClaims{
		UserID:      user.ID,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, jti, nil
}

func (s *AuthService) parse(tokenString, wantType string) (*TokenClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.TokenType != wantType || claims.ID == "" {
		return nil, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}
	return claims, nil
}

// CreateStaffUser bootstraps a management account.
func (s *AuthService) CreateStaffUser(ctx context.Context, in CreateStaffInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, fieldError("email", "user with this email already exists.")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Password:    hash,
		IsStaff:     true,
		IsSuperuser: in.IsSuperuser,
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

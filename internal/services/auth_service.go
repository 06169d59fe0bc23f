package services

import (
	"context"
	"strings"
	"time"

	"dinepos/internal/common"
	"dinepos/internal/models"
	"dinepos/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenClaims is the JWT payload issued at signup and login. The auth
// middleware parses the same shape back out on every request.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type SignupInput struct {
	RestaurantName string  `json:"restaurant_name"`
	City           string  `json:"city"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
	OwnerName      string  `json:"owner_name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
}

type CreateStaffInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult bundles the signed token with the identity it represents.
type AuthResult struct {
	Token  string         `json:"token"`
	User   *models.User   `json:"user"`
	Tenant *models.Tenant `json:"tenant,omitempty"`
}

type AuthService interface {
	// SignupOwner provisions a restaurant on trial together with its owner
	// account, atomically, and returns a signed token.
	SignupOwner(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// CreateStaff adds a STAFF user to the caller's restaurant.
	CreateStaff(ctx context.Context, tenantID uuid.UUID, input CreateStaffInput) (*models.User, error)
	// GetUser resolves a user within the caller's restaurant.
	GetUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error)
}

type authService struct {
	db         repositories.DB
	userRepo   repositories.UserRepository
	tenantRepo repositories.TenantRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	trialDays  int
}

func NewAuthService(db repositories.DB, userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository, jwtSecret string, tokenTTL time.Duration, trialDays int) AuthService {
	return &authService{
		db:         db,
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		trialDays:  trialDays,
	}
}

func (s *authService) SignupOwner(ctx context.Context, input SignupInput) (*AuthResult, error) {
	input.RestaurantName = strings.TrimSpace(input.RestaurantName)
	input.OwnerName = strings.TrimSpace(input.OwnerName)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if input.RestaurantName == "" {
		return nil, common.NewInvalidInput("restaurant_name is required")
	}
	if input.OwnerName == "" {
		return nil, common.NewInvalidInput("owner_name is required")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, common.NewInvalidInput("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, common.NewInvalidInput("password must be at least 8 characters")
	}
	if input.TaxRatePercent < 0 {
		return nil, common.NewInvalidInput("tax_rate_percent must not be negative")
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if existing != nil {
		return nil, common.NewConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternal(err)
	}

	trialEndsAt := time.Now().AddDate(0, 0, s.trialDays)
	tenant := &models.Tenant{
		ID:                 uuid.New(),
		Name:               input.RestaurantName,
		City:               strings.TrimSpace(input.City),
		TaxRatePercent:     input.TaxRatePercent,
		SubscriptionStatus: models.SubscriptionTrial,
		TrialEndsAt:        &trialEndsAt,
	}
	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Name:         input.OwnerName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.RoleOwner,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if err := s.tenantRepo.Create(ctx, tx, tenant); err != nil {
		_ = tx.Rollback(ctx)
		return nil, common.NewInternal(err)
	}
	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		_ = tx.Rollback(ctx)
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflict("email already registered")
		}
		return nil, common.NewInternal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, common.NewInternal(err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	return &AuthResult{Token: token, User: user, Tenant: tenant}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, common.NewInvalidInput("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if user == nil {
		return nil, common.NewUnauthenticated("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.NewUnauthenticated("invalid credentials")
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) CreateStaff(ctx context.Context, tenantID uuid.UUID, input CreateStaffInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if input.Name == "" {
		return nil, common.NewInvalidInput("name is required")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, common.NewInvalidInput("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, common.NewInvalidInput("password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if existing != nil {
		return nil, common.NewConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternal(err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
	}
	if err := s.userRepo.Create(ctx, s.db, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflict("email already registered")
		}
		return nil, common.NewInternal(err)
	}
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if user == nil {
		return nil, common.NewNotFound("user")
	}
	return user, nil
}

func (s *authService) signToken(user *models.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID.String(),
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

package services

import (
	"context"
	"testing"
	"time"

	"dinepos/internal/common"
	"dinepos/internal/models"
	"dinepos/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, q repositories.Querier, user *models.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo   *MockUserRepository
	tenantRepo *MockTenantRepository
	service    AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = &MockUserRepository{}
	suite.tenantRepo = &MockTenantRepository{}
	suite.userRepo.Test(suite.T())
	suite.tenantRepo.Test(suite.T())
	suite.service = NewAuthService(nil, suite.userRepo, suite.tenantRepo, "test-secret", time.Hour, 14)
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.userRepo.AssertExpectations(suite.T())
	suite.tenantRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	assert.NoError(suite.T(), err)

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "owner@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleOwner,
	}
	suite.userRepo.On("GetByEmail", mock.Anything, "owner@example.com").Return(user, nil)

	result, err := suite.service.Login(context.Background(), "Owner@Example.com", "hunter2hunter2")
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), result.Token)

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(result.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), token.Valid)
	assert.Equal(suite.T(), user.ID.String(), claims.UserID)
	assert.Equal(suite.T(), user.TenantID.String(), claims.TenantID)
	assert.Equal(suite.T(), models.RoleOwner, claims.Role)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	assert.NoError(suite.T(), err)

	suite.userRepo.On("GetByEmail", mock.Anything, "owner@example.com").Return(&models.User{
		ID:           uuid.New(),
		Email:        "owner@example.com",
		PasswordHash: string(hash),
	}, nil)

	_, err = suite.service.Login(context.Background(), "owner@example.com", "wrong-password")
	assert.Equal(suite.T(), common.KindUnauthenticated, common.KindOf(err))
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	suite.userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	_, err := suite.service.Login(context.Background(), "ghost@example.com", "whatever")
	assert.Equal(suite.T(), common.KindUnauthenticated, common.KindOf(err))
}

func (suite *AuthServiceTestSuite) TestLogin_MissingFields() {
	_, err := suite.service.Login(context.Background(), "", "")
	assert.Equal(suite.T(), common.KindInvalidInput, common.KindOf(err))
}

func (suite *AuthServiceTestSuite) TestSignupOwner_ValidationFailures() {
	tests := []struct {
		name  string
		input SignupInput
	}{
		{"missing restaurant name", SignupInput{OwnerName: "A", Email: "a@b.com", Password: "longenough"}},
		{"missing owner name", SignupInput{RestaurantName: "R", Email: "a@b.com", Password: "longenough"}},
		{"bad email", SignupInput{RestaurantName: "R", OwnerName: "A", Email: "nope", Password: "longenough"}},
		{"short password", SignupInput{RestaurantName: "R", OwnerName: "A", Email: "a@b.com", Password: "short"}},
		{"negative tax rate", SignupInput{RestaurantName: "R", OwnerName: "A", Email: "a@b.com", Password: "longenough", TaxRatePercent: -5}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.SignupOwner(context.Background(), tt.input)
			assert.Equal(suite.T(), common.KindInvalidInput, common.KindOf(err))
		})
	}
}

func (suite *AuthServiceTestSuite) TestSignupOwner_EmailTaken() {
	suite.userRepo.On("GetByEmail", mock.Anything, "taken@example.com").Return(&models.User{
		ID:    uuid.New(),
		Email: "taken@example.com",
	}, nil)

	_, err := suite.service.SignupOwner(context.Background(), SignupInput{
		RestaurantName: "Spice Route",
		OwnerName:      "Asha",
		Email:          "Taken@Example.com",
		Password:       "longenough",
		TaxRatePercent: 10,
	})
	assert.Equal(suite.T(), common.KindConflict, common.KindOf(err))
}

func (suite *AuthServiceTestSuite) TestGetUser_Success() {
	tenantID := uuid.New()
	userID := uuid.New()
	suite.userRepo.On("GetByID", mock.Anything, tenantID, userID).Return(&models.User{
		ID:       userID,
		TenantID: tenantID,
		Name:     "Asha",
		Role:     models.RoleOwner,
	}, nil)

	user, err := suite.service.GetUser(context.Background(), tenantID, userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Asha", user.Name)
}

func (suite *AuthServiceTestSuite) TestGetUser_MissingOrForeignTenant() {
	tenantID := uuid.New()
	userID := uuid.New()
	suite.userRepo.On("GetByID", mock.Anything, tenantID, userID).Return(nil, nil)

	_, err := suite.service.GetUser(context.Background(), tenantID, userID)
	assert.Equal(suite.T(), common.KindNotFound, common.KindOf(err))
}

func (suite *AuthServiceTestSuite) TestCreateStaff_Validation() {
	_, err := suite.service.CreateStaff(context.Background(), uuid.New(), CreateStaffInput{
		Name:     "",
		Email:    "staff@example.com",
		Password: "longenough",
	})
	assert.Equal(suite.T(), common.KindInvalidInput, common.KindOf(err))
}

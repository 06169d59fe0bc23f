package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinepos/internal/models"
	"dinepos/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, q repositories.Querier, tenant *models.Tenant) error {
	args := m.Called(ctx, q, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ExpireLapsedTrials(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	args := m.Called(ctx, tenant, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteTenant(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) GetMenuItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.MenuItem, error) {
	args := m.Called(ctx, tenantID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockCacheService) SetMenuItem(ctx context.Context, tenantID uuid.UUID, item *models.MenuItem, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, item, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteMenuItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	args := m.Called(ctx, tenantID, itemID)
	return args.Error(0)
}

func TestExpireLapsedTrials_EvictsFlippedTenants(t *testing.T) {
	repo := &MockTenantRepository{}
	cache := &MockCacheService{}
	repo.Test(t)
	cache.Test(t)

	first, second := uuid.New(), uuid.New()
	repo.On("ExpireLapsedTrials", mock.Anything).Return([]uuid.UUID{first, second}, nil)
	cache.On("DeleteTenant", mock.Anything, first).Return(nil)
	cache.On("DeleteTenant", mock.Anything, second).Return(nil)

	s := &TrialExpiryScheduler{tenantRepo: repo, cache: cache}
	s.expireLapsedTrials(context.Background())

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestExpireLapsedTrials_NothingLapsed(t *testing.T) {
	repo := &MockTenantRepository{}
	cache := &MockCacheService{}
	repo.Test(t)
	cache.Test(t)

	repo.On("ExpireLapsedTrials", mock.Anything).Return([]uuid.UUID(nil), nil)

	s := &TrialExpiryScheduler{tenantRepo: repo, cache: cache}
	s.expireLapsedTrials(context.Background())

	repo.AssertExpectations(t)
	cache.AssertNotCalled(t, "DeleteTenant", mock.Anything, mock.Anything)
}

func TestExpireLapsedTrials_SweepErrorSkipsEviction(t *testing.T) {
	repo := &MockTenantRepository{}
	cache := &MockCacheService{}
	repo.Test(t)
	cache.Test(t)

	repo.On("ExpireLapsedTrials", mock.Anything).Return(nil, errors.New("db down"))

	s := &TrialExpiryScheduler{tenantRepo: repo, cache: cache}
	s.expireLapsedTrials(context.Background())

	repo.AssertExpectations(t)
	cache.AssertNotCalled(t, "DeleteTenant", mock.Anything, mock.Anything)
}

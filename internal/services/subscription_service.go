package services

import (
	"context"
	"time"

	"dinepos/internal/caching"
	"dinepos/internal/common"
	"dinepos/internal/models"
	"dinepos/internal/repositories"

	"github.com/google/uuid"
)

// Denial reasons surfaced in the error details of a gate rejection.
const (
	ReasonTrialExpired = "trial expired"
	ReasonExpired      = "expired"
	ReasonInactive     = "inactive"
)

// tenantCacheTTL bounds how stale a gate decision can be after a billing
// status change.
const tenantCacheTTL = 30 * time.Second

// Decision is the outcome of evaluating a tenant's subscription at a point in
// time. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

// EvaluateSubscription applies the billing decision table. It is pure so the
// table can be tested without any storage.
func EvaluateSubscription(status string, trialEndsAt *time.Time, now time.Time) Decision {
	switch status {
	case models.SubscriptionActive:
		return Decision{Allowed: true}
	case models.SubscriptionTrial:
		// A trial ending exactly now is still good.
		if trialEndsAt != nil && !trialEndsAt.Before(now) {
			return Decision{Allowed: true}
		}
		return Decision{Reason: ReasonTrialExpired}
	case models.SubscriptionExpired:
		return Decision{Reason: ReasonExpired}
	default:
		// CANCELLED and anything unrecognized.
		return Decision{Reason: ReasonInactive}
	}
}

// SubscriptionService gates tenant-scoped operations on the tenant's
// subscription state.
type SubscriptionService interface {
	Authorize(ctx context.Context, tenantID uuid.UUID) error
}

type subscriptionService struct {
	tenantRepo repositories.TenantRepository
	cache      caching.CacheService
	now        func() time.Time
}

func NewSubscriptionService(tenantRepo repositories.TenantRepository, cache caching.CacheService) SubscriptionService {
	return &subscriptionService{
		tenantRepo: tenantRepo,
		cache:      cache,
		now:        time.Now,
	}
}

func (s *subscriptionService) Authorize(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.lookupTenant(ctx, tenantID)
	if err != nil {
		return common.NewInternal(err)
	}
	if tenant == nil {
		return common.NewNotFound("restaurant")
	}

	decision := EvaluateSubscription(tenant.SubscriptionStatus, tenant.TrialEndsAt, s.now())
	if decision.Allowed {
		return nil
	}

	switch decision.Reason {
	case ReasonTrialExpired:
		return common.NewSubscriptionDenied(decision.Reason, "trial period has ended")
	case ReasonExpired:
		return common.NewSubscriptionDenied(decision.Reason, "subscription has expired")
	default:
		return common.NewSubscriptionDenied(decision.Reason, "subscription is not active")
	}
}

// lookupTenant reads through the cache. Cache failures fall back to the
// database rather than failing the request.
func (s *subscriptionService) lookupTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	if s.cache != nil {
		if tenant, err := s.cache.GetTenant(ctx, tenantID); err == nil && tenant != nil {
			return tenant, nil
		}
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant != nil && s.cache != nil {
		_ = s.cache.SetTenant(ctx, tenant, tenantCacheTTL)
	}
	return tenant, nil
}

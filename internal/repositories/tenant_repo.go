package repositories

import (
	"context"

	"dinepos/internal/models"

	"github.com/google/uuid"
)

type TenantRepository interface {
	// Create runs on the given Querier so signup can insert the tenant and
	// its owner atomically.
	Create(ctx context.Context, q Querier, tenant *models.Tenant) error
	// GetByID returns (nil, nil) when no tenant exists with the id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	// ExpireLapsedTrials flips TRIAL tenants whose trial window has passed to
	// EXPIRED and returns the ids of the tenants touched, so callers can evict
	// stale cache entries.
	ExpireLapsedTrials(ctx context.Context) ([]uuid.UUID, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, q Querier, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, city, tax_rate_percent, subscription_status, trial_ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := q.Exec(ctx, query, tenant.ID, tenant.Name, tenant.City, tenant.TaxRatePercent,
		tenant.SubscriptionStatus, tenant.TrialEndsAt)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `
		SELECT id, name, city, tax_rate_percent, subscription_status, trial_ends_at, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&tenant.ID, &tenant.Name, &tenant.City,
		&tenant.TaxRatePercent, &tenant.SubscriptionStatus, &tenant.TrialEndsAt,
		&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) ExpireLapsedTrials(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		UPDATE tenants
		SET subscription_status = $1, updated_at = NOW()
		WHERE subscription_status = $2 AND trial_ends_at IS NOT NULL AND trial_ends_at < NOW()
		RETURNING id
	`
	rows, err := r.db.Query(ctx, query, models.SubscriptionExpired, models.SubscriptionTrial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

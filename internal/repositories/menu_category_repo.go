package repositories

import (
	"context"

	"dinepos/internal/models"

	"github.com/google/uuid"
)

type MenuCategoryRepository interface {
	Create(ctx context.Context, category *models.MenuCategory) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuCategory, error)
	// ExistsByName matches case-insensitively; the caller trims first.
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error)
}

type menuCategoryRepo struct {
	db DB
}

func NewMenuCategoryRepo(db DB) MenuCategoryRepository {
	return &menuCategoryRepo{db: db}
}

func (r *menuCategoryRepo) Create(ctx context.Context, category *models.MenuCategory) error {
	query := `
		INSERT INTO menu_categories (id, tenant_id, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.TenantID, category.Name, category.Active)
	return err
}

func (r *menuCategoryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuCategory, error) {
	category := &models.MenuCategory{}
	query := `
		SELECT id, tenant_id, name, active, created_at, updated_at
		FROM menu_categories
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&category.ID, &category.TenantID,
		&category.Name, &category.Active, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

func (r *menuCategoryRepo) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM menu_categories
			WHERE tenant_id = $1 AND LOWER(name) = LOWER($2)
		)
	`
	err := r.db.QueryRow(ctx, query, tenantID, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *menuCategoryRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error) {
	query := `
		SELECT id, tenant_id, name, active, created_at, updated_at
		FROM menu_categories
		WHERE tenant_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.MenuCategory
	for rows.Next() {
		category := &models.MenuCategory{}
		if err := rows.Scan(&category.ID, &category.TenantID, &category.Name, &category.Active,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

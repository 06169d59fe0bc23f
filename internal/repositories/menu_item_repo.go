package repositories

import (
	"context"

	"dinepos/internal/models"

	"github.com/google/uuid"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuItem, error)
	// ActiveByCode resolves an order line's item code to an active menu item.
	// It takes a Querier because the order aggregate calls it inside its
	// mutation transaction.
	ActiveByCode(ctx context.Context, q Querier, tenantID uuid.UUID, code string) (*models.MenuItem, error)
	CodeExists(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// List returns the tenant's items ordered by name, optionally filtered by
	// category when categoryID is non-nil.
	List(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) ([]*models.MenuItem, error)
	SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (bool, error)
	// SetImageURL stores the item's image URL; nil clears it.
	SetImageURL(ctx context.Context, tenantID, id uuid.UUID, url *string) (bool, error)
}

type menuItemRepo struct {
	db DB
}

func NewMenuItemRepo(db DB) MenuItemRepository {
	return &menuItemRepo{db: db}
}

const menuItemColumns = `id, tenant_id, category_id, name, code, price, is_veg, is_active, image_url, created_at, updated_at`

func scanMenuItem(row interface{ Scan(dest ...any) error }) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := row.Scan(&item.ID, &item.TenantID, &item.CategoryID, &item.Name, &item.Code,
		&item.Price, &item.IsVeg, &item.IsActive, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *menuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, tenant_id, category_id, name, code, price, is_veg, is_active, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.TenantID, item.CategoryID, item.Name,
		item.Code, item.Price, item.IsVeg, item.IsActive, item.ImageURL)
	return err
}

func (r *menuItemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE tenant_id = $1 AND id = $2
	`
	item, err := scanMenuItem(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *menuItemRepo) ActiveByCode(ctx context.Context, q Querier, tenantID uuid.UUID, code string) (*models.MenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE tenant_id = $1 AND code = $2 AND is_active = TRUE
	`
	item, err := scanMenuItem(q.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *menuItemRepo) CodeExists(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM menu_items WHERE tenant_id = $1 AND code = $2)`
	if err := r.db.QueryRow(ctx, query, tenantID, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *menuItemRepo) List(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) ([]*models.MenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	if categoryID != nil {
		query += ` AND category_id = $2`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *menuItemRepo) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (bool, error) {
	query := `
		UPDATE menu_items
		SET is_active = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, active, tenantID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *menuItemRepo) SetImageURL(ctx context.Context, tenantID, id uuid.UUID, url *string) (bool, error) {
	query := `
		UPDATE menu_items
		SET image_url = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, url, tenantID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

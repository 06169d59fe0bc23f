package repositories

import (
	"context"

	"dinepos/internal/models"

	"github.com/google/uuid"
)

// OrderRepository owns orders and their line items. Methods that take a
// Querier participate in the caller's transaction; order mutation must be
// serialized per order via GetForUpdate (see the order service).
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	// FindOpenByTable returns (nil, nil) when no OPEN dine-in order holds the
	// table.
	FindOpenByTable(ctx context.Context, tenantID uuid.UUID, tableNumber int) (*models.Order, error)
	// GetForUpdate row-locks the order scoped by tenant, regardless of
	// status. Returns (nil, nil) when the order is absent for the tenant.
	GetForUpdate(ctx context.Context, q Querier, tenantID, id uuid.UUID) (*models.Order, error)
	UpdateTotals(ctx context.Context, q Querier, order *models.Order) error
	UpdateStatus(ctx context.Context, q Querier, tenantID, id uuid.UUID, status string) error

	ListItems(ctx context.Context, q Querier, orderID uuid.UUID) ([]*models.OrderItem, error)
	ItemByMenuItem(ctx context.Context, q Querier, orderID, menuItemID uuid.UUID) (*models.OrderItem, error)
	ItemByID(ctx context.Context, q Querier, orderID, itemID uuid.UUID) (*models.OrderItem, error)
	InsertItem(ctx context.Context, q Querier, item *models.OrderItem) error
	UpdateItemQuantity(ctx context.Context, q Querier, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, q Querier, itemID uuid.UUID) error
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, tenant_id, order_type, table_number, status, subtotal, tax, discount, total, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.TenantID, &order.OrderType, &order.TableNumber,
		&order.Status, &order.Subtotal, &order.Tax, &order.Discount, &order.Total,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, tenant_id, order_type, table_number, status, subtotal, tax, discount, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.TenantID, order.OrderType, order.TableNumber,
		order.Status, order.Subtotal, order.Tax, order.Discount, order.Total)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND id = $2
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) FindOpenByTable(ctx context.Context, tenantID uuid.UUID, tableNumber int) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND table_number = $2 AND order_type = $3 AND status = $4
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, tenantID, tableNumber,
		models.OrderTypeDineIn, models.OrderStatusOpen))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, q Querier, tenantID, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE
	`
	order, err := scanOrder(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) UpdateTotals(ctx context.Context, q Querier, order *models.Order) error {
	query := `
		UPDATE orders
		SET subtotal = $1, tax = $2, discount = $3, total = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := q.Exec(ctx, query, order.Subtotal, order.Tax, order.Discount, order.Total,
		order.TenantID, order.ID)
	return err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, q Querier, tenantID, id uuid.UUID, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	_, err := q.Exec(ctx, query, status, tenantID, id)
	return err
}

const orderItemColumns = `id, order_id, menu_item_id, quantity, unit_price, created_at, updated_at`

func scanOrderItem(row interface{ Scan(dest ...any) error }) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	err := row.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.UnitPrice,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *orderRepo) ListItems(ctx context.Context, q Querier, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderRepo) ItemByMenuItem(ctx context.Context, q Querier, orderID, menuItemID uuid.UUID) (*models.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_id = $1 AND menu_item_id = $2
	`
	item, err := scanOrderItem(q.QueryRow(ctx, query, orderID, menuItemID))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *orderRepo) ItemByID(ctx context.Context, q Querier, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE order_id = $1 AND id = $2
	`
	item, err := scanOrderItem(q.QueryRow(ctx, query, orderID, itemID))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *orderRepo) InsertItem(ctx context.Context, q Querier, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, menu_item_id, quantity, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := q.Exec(ctx, query, item.ID, item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice)
	return err
}

func (r *orderRepo) UpdateItemQuantity(ctx context.Context, q Querier, itemID uuid.UUID, quantity int) error {
	query := `
		UPDATE order_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := q.Exec(ctx, query, quantity, itemID)
	return err
}

func (r *orderRepo) DeleteItem(ctx context.Context, q Querier, itemID uuid.UUID) error {
	query := `DELETE FROM order_items WHERE id = $1`
	_, err := q.Exec(ctx, query, itemID)
	return err
}

package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
)

// Order statuses. CANCELLED exists in the schema but no operation currently
// produces it; PAID and CANCELLED are terminal.
const (
	OrderStatusOpen      = "OPEN"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
)

// Order is the cart-like aggregate root. All monetary fields are derived from
// the current line set and are never set independently.
type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	OrderType   string    `json:"order_type" db:"order_type"`
	TableNumber *int      `json:"table_number" db:"table_number"`
	Status      string    `json:"status" db:"status"`
	Subtotal    float64   `json:"subtotal" db:"subtotal"`
	Tax         float64   `json:"tax" db:"tax"`
	Discount    float64   `json:"discount" db:"discount"`
	Total       float64   `json:"total" db:"total"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// OrderItem is one line of an order. UnitPrice is the menu price captured at
// add time and never tracks later menu changes. At most one line exists per
// (order, menu item); repeated adds increment Quantity.
type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	MenuItemID uuid.UUID `json:"menu_item_id" db:"menu_item_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

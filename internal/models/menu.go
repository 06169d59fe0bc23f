package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuCategory groups menu items. Name is unique per tenant, case-insensitive.
type MenuCategory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItem is a sellable item. Code is unique per tenant and is what order
// lines are added by.
type MenuItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	CategoryID uuid.UUID `json:"category_id" db:"category_id"`
	Name       string    `json:"name" db:"name"`
	Code       string    `json:"code" db:"code"`
	Price      float64   `json:"price" db:"price"`
	IsVeg      bool      `json:"is_veg" db:"is_veg"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	ImageURL   *string   `json:"image_url,omitempty" db:"image_url"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

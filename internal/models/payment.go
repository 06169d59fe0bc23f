package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentMethodCash = "CASH"
	PaymentMethodUPI  = "UPI"
)

const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// Payment finalizes an order. Amount is the order total at capture time.
// Exactly one payment exists per order and it is immutable once written.
type Payment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Method    string    `json:"method" db:"method"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

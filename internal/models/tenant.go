package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses for a tenant. The gate in services treats anything
// outside this set as inactive.
const (
	SubscriptionTrial     = "TRIAL"
	SubscriptionActive    = "ACTIVE"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionCancelled = "CANCELLED"
)

// Tenant is a restaurant account, the unit of data isolation.
type Tenant struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	City               string     `json:"city" db:"city"`
	TaxRatePercent     float64    `json:"tax_rate_percent" db:"tax_rate_percent"`
	SubscriptionStatus string     `json:"subscription_status" db:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at" db:"trial_ends_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

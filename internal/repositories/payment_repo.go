package repositories

import (
	"context"

	"dinepos/internal/models"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	// Create runs on the caller's Querier: the payment insert and the order
	// status flip must commit or fail together.
	Create(ctx context.Context, q Querier, payment *models.Payment) error
	GetByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Payment, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, q Querier, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, tenant_id, amount, method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := q.Exec(ctx, query, payment.ID, payment.OrderID, payment.TenantID,
		payment.Amount, payment.Method, payment.Status)
	return err
}

func (r *paymentRepo) GetByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, order_id, tenant_id, amount, method, status, created_at
		FROM payments
		WHERE tenant_id = $1 AND order_id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, orderID).Scan(&payment.ID, &payment.OrderID,
		&payment.TenantID, &payment.Amount, &payment.Method, &payment.Status, &payment.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

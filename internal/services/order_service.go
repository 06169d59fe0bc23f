package services

import (
	"context"

	"dinepos/internal/common"
	"dinepos/internal/models"
	"dinepos/internal/pricing"
	"dinepos/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateOrderInput struct {
	OrderType   string `json:"order_type"`
	TableNumber *int   `json:"table_number"`
}

// CartLine is one order line as presented to callers, with its derived line
// total.
type CartLine struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	LineTotal  float64   `json:"line_total"`
}

// Cart is the full order view returned by every order operation. Payment is
// set once the order has been paid.
type Cart struct {
	OrderID        uuid.UUID       `json:"order_id"`
	OrderType      string          `json:"order_type"`
	TableNumber    *int            `json:"table_number"`
	Status         string          `json:"status"`
	Lines          []CartLine      `json:"lines"`
	Subtotal       float64         `json:"subtotal"`
	TaxRatePercent float64         `json:"tax_rate_percent"`
	Tax            float64         `json:"tax"`
	Discount       float64         `json:"discount"`
	Total          float64         `json:"total"`
	Payment        *PaymentReceipt `json:"payment,omitempty"`
}

// PaymentReceipt is returned when an order is paid.
type PaymentReceipt struct {
	PaymentID uuid.UUID `json:"payment_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
}

// OrderService is the order aggregate: cart lifecycle, line mutations and
// payment. Every mutation runs in one transaction holding a row lock on the
// order, so concurrent mutations of the same order serialize and totals are
// always recomputed from the full line set.
type OrderService interface {
	CreateOrder(ctx context.Context, tenantID uuid.UUID, input CreateOrderInput) (*Cart, error)
	GetCart(ctx context.Context, tenantID, orderID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, tenantID, orderID uuid.UUID, code string, quantity int) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, tenantID, orderID, itemID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*Cart, error)
	Pay(ctx context.Context, tenantID, orderID uuid.UUID, method string) (*PaymentReceipt, error)
}

type orderService struct {
	db          repositories.DB
	orderRepo   repositories.OrderRepository
	itemRepo    repositories.MenuItemRepository
	tenantRepo  repositories.TenantRepository
	paymentRepo repositories.PaymentRepository
}

func NewOrderService(db repositories.DB, orderRepo repositories.OrderRepository, itemRepo repositories.MenuItemRepository, tenantRepo repositories.TenantRepository, paymentRepo repositories.PaymentRepository) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		tenantRepo:  tenantRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, input CreateOrderInput) (*Cart, error) {
	switch input.OrderType {
	case models.OrderTypeDineIn:
		if input.TableNumber == nil || *input.TableNumber <= 0 {
			return nil, common.NewInvalidInput("table_number is required for dine-in orders")
		}
	case models.OrderTypeTakeaway:
		input.TableNumber = nil
	default:
		return nil, common.NewInvalidInput("order_type must be DINE_IN or TAKEAWAY")
	}

	if input.OrderType == models.OrderTypeDineIn {
		existing, err := s.orderRepo.FindOpenByTable(ctx, tenantID, *input.TableNumber)
		if err != nil {
			return nil, common.NewInternal(err)
		}
		if existing != nil {
			return nil, common.NewConflict("table already has an open order").
				WithDetail("order_id", existing.ID.String())
		}
	}

	order := &models.Order{
		ID:          uuid.New(),
		TenantID:    tenantID,
		OrderType:   input.OrderType,
		TableNumber: input.TableNumber,
		Status:      models.OrderStatusOpen,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		// The partial unique index closes the race between the pre-check and
		// the insert.
		if repositories.IsUniqueViolation(err) && input.TableNumber != nil {
			conflict := common.NewConflict("table already has an open order")
			if existing, findErr := s.orderRepo.FindOpenByTable(ctx, tenantID, *input.TableNumber); findErr == nil && existing != nil {
				conflict.WithDetail("order_id", existing.ID.String())
			}
			return nil, conflict
		}
		return nil, common.NewInternal(err)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	var taxRate float64
	if tenant != nil {
		taxRate = tenant.TaxRatePercent
	}
	return buildCart(order, nil, taxRate), nil
}

func (s *orderService) GetCart(ctx context.Context, tenantID, orderID uuid.UUID) (*Cart, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if order == nil {
		return nil, common.NewNotFound("order")
	}

	lines, err := s.orderRepo.ListItems(ctx, s.db, orderID)
	if err != nil {
		return nil, common.NewInternal(err)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	var taxRate float64
	if tenant != nil {
		taxRate = tenant.TaxRatePercent
	}

	cart := buildCart(order, lines, taxRate)
	if order.Status == models.OrderStatusPaid {
		payment, err := s.paymentRepo.GetByOrderID(ctx, tenantID, orderID)
		if err != nil {
			return nil, common.NewInternal(err)
		}
		if payment != nil {
			cart.Payment = &PaymentReceipt{
				PaymentID: payment.ID,
				OrderID:   payment.OrderID,
				Amount:    payment.Amount,
				Method:    payment.Method,
				Status:    payment.Status,
			}
		}
	}
	return cart, nil
}

func (s *orderService) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, code string, quantity int) (*Cart, error) {
	if code == "" {
		return nil, common.NewInvalidInput("item code is required")
	}
	if quantity <= 0 {
		return nil, common.NewInvalidInput("quantity must be positive")
	}

	return s.mutate(ctx, tenantID, orderID, func(tx pgx.Tx, order *models.Order) error {
		menuItem, err := s.itemRepo.ActiveByCode(ctx, tx, tenantID, code)
		if err != nil {
			return common.NewInternal(err)
		}
		if menuItem == nil {
			return common.NewNotFound("menu item")
		}

		existing, err := s.orderRepo.ItemByMenuItem(ctx, tx, orderID, menuItem.ID)
		if err != nil {
			return common.NewInternal(err)
		}
		if existing != nil {
			// Repeated adds of the same item fold into one line. The unit
			// price snapshot from the first add is kept.
			if err := s.orderRepo.UpdateItemQuantity(ctx, tx, existing.ID, existing.Quantity+quantity); err != nil {
				return common.NewInternal(err)
			}
			return nil
		}

		line := &models.OrderItem{
			ID:         uuid.New(),
			OrderID:    orderID,
			MenuItemID: menuItem.ID,
			Quantity:   quantity,
			UnitPrice:  menuItem.Price,
		}
		if err := s.orderRepo.InsertItem(ctx, tx, line); err != nil {
			return common.NewInternal(err)
		}
		return nil
	})
}

func (s *orderService) UpdateItemQuantity(ctx context.Context, tenantID, orderID, itemID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 0 {
		return nil, common.NewInvalidInput("quantity must not be negative")
	}

	return s.mutate(ctx, tenantID, orderID, func(tx pgx.Tx, order *models.Order) error {
		line, err := s.orderRepo.ItemByID(ctx, tx, orderID, itemID)
		if err != nil {
			return common.NewInternal(err)
		}
		if line == nil {
			return common.NewNotFound("order item")
		}

		if quantity == 0 {
			if err := s.orderRepo.DeleteItem(ctx, tx, line.ID); err != nil {
				return common.NewInternal(err)
			}
			return nil
		}
		if err := s.orderRepo.UpdateItemQuantity(ctx, tx, line.ID, quantity); err != nil {
			return common.NewInternal(err)
		}
		return nil
	})
}

func (s *orderService) RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*Cart, error) {
	return s.mutate(ctx, tenantID, orderID, func(tx pgx.Tx, order *models.Order) error {
		line, err := s.orderRepo.ItemByID(ctx, tx, orderID, itemID)
		if err != nil {
			return common.NewInternal(err)
		}
		if line == nil {
			return common.NewNotFound("order item")
		}
		if err := s.orderRepo.DeleteItem(ctx, tx, line.ID); err != nil {
			return common.NewInternal(err)
		}
		return nil
	})
}

func (s *orderService) Pay(ctx context.Context, tenantID, orderID uuid.UUID, method string) (*PaymentReceipt, error) {
	if method != models.PaymentMethodCash && method != models.PaymentMethodUPI {
		return nil, common.NewInvalidInput("method must be CASH or UPI")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.NewInternal(err)
	}

	order, err := s.orderRepo.GetForUpdate(ctx, tx, tenantID, orderID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, common.NewInternal(err)
	}
	if order == nil {
		_ = tx.Rollback(ctx)
		return nil, common.NewNotFound("order")
	}
	if order.Status != models.OrderStatusOpen {
		_ = tx.Rollback(ctx)
		return nil, common.NewConflict("order already paid or cancelled")
	}

	payment := &models.Payment{
		ID:       uuid.New(),
		OrderID:  order.ID,
		TenantID: tenantID,
		Amount:   order.Total,
		Method:   method,
		Status:   models.PaymentStatusSuccess,
	}
	if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
		_ = tx.Rollback(ctx)
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflict("order already paid or cancelled")
		}
		return nil, common.NewInternal(err)
	}
	if err := s.orderRepo.UpdateStatus(ctx, tx, tenantID, order.ID, models.OrderStatusPaid); err != nil {
		_ = tx.Rollback(ctx)
		return nil, common.NewInternal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, common.NewInternal(err)
	}

	return &PaymentReceipt{
		PaymentID: payment.ID,
		OrderID:   order.ID,
		Amount:    payment.Amount,
		Method:    payment.Method,
		Status:    payment.Status,
	}, nil
}

// mutate runs fn inside a transaction holding the order's row lock, then
// recomputes and persists the order totals from the surviving line set.
// Orders that are absent for the tenant or no longer OPEN read as not found.
func (s *orderService) mutate(ctx context.Context, tenantID, orderID uuid.UUID, fn func(tx pgx.Tx, order *models.Order) error) (*Cart, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if tenant == nil {
		return nil, common.NewNotFound("restaurant")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.NewInternal(err)
	}

	order, err := s.orderRepo.GetForUpdate(ctx, tx, tenantID, orderID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, common.NewInternal(err)
	}
	if order == nil || order.Status != models.OrderStatusOpen {
		_ = tx.Rollback(ctx)
		return nil, common.NewNotFound("order")
	}

	if err := fn(tx, order); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	lines, err := s.orderRepo.ListItems(ctx, tx, orderID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, common.NewInternal(err)
	}

	priced := make([]pricing.LineItem, 0, len(lines))
	for _, line := range lines {
		priced = append(priced, pricing.LineItem{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
	}
	totals := pricing.ComputeTotals(priced, tenant.TaxRatePercent)

	order.Subtotal = totals.Subtotal
	order.Tax = totals.Tax
	order.Discount = totals.Discount
	order.Total = totals.Total
	if err := s.orderRepo.UpdateTotals(ctx, tx, order); err != nil {
		_ = tx.Rollback(ctx)
		return nil, common.NewInternal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.NewInternal(err)
	}
	return buildCart(order, lines, tenant.TaxRatePercent), nil
}

func buildCart(order *models.Order, lines []*models.OrderItem, taxRatePercent float64) *Cart {
	cart := &Cart{
		OrderID:        order.ID,
		OrderType:      order.OrderType,
		TableNumber:    order.TableNumber,
		Status:         order.Status,
		Lines:          make([]CartLine, 0, len(lines)),
		Subtotal:       order.Subtotal,
		TaxRatePercent: taxRatePercent,
		Tax:            order.Tax,
		Discount:       order.Discount,
		Total:          order.Total,
	}
	for _, line := range lines {
		cart.Lines = append(cart.Lines, CartLine{
			ID:         line.ID,
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  line.UnitPrice * float64(line.Quantity),
		})
	}
	return cart
}

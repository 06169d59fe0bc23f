package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dinepos/internal/common"
	"dinepos/internal/models"
	"dinepos/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, input services.CreateOrderInput) (*services.Cart, error) {
	args := m.Called(ctx, tenantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Cart), args.Error(1)
}

func (m *MockOrderService) GetCart(ctx context.Context, tenantID, orderID uuid.UUID) (*services.Cart, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Cart), args.Error(1)
}

func (m *MockOrderService) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, code string, quantity int) (*services.Cart, error) {
	args := m.Called(ctx, tenantID, orderID, code, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Cart), args.Error(1)
}

func (m *MockOrderService) UpdateItemQuantity(ctx context.Context, tenantID, orderID, itemID uuid.UUID, quantity int) (*services.Cart, error) {
	args := m.Called(ctx, tenantID, orderID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Cart), args.Error(1)
}

func (m *MockOrderService) RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*services.Cart, error) {
	args := m.Called(ctx, tenantID, orderID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Cart), args.Error(1)
}

func (m *MockOrderService) Pay(ctx context.Context, tenantID, orderID uuid.UUID, method string) (*services.PaymentReceipt, error) {
	args := m.Called(ctx, tenantID, orderID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PaymentReceipt), args.Error(1)
}

func newOrderContext(t *testing.T, method, body string, tenantID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := common.WithIdentity(req.Context(), uuid.New(), tenantID, models.RoleStaff)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAddItem_ReturnsUpdatedCart(t *testing.T) {
	svc := &MockOrderService{}
	svc.Test(t)
	h := NewOrderHandlers(svc)

	tenantID := uuid.New()
	orderID := uuid.New()
	cart := &services.Cart{
		OrderID:  orderID,
		Status:   models.OrderStatusOpen,
		Subtotal: 200, Tax: 20, Total: 220,
	}
	svc.On("AddItem", mock.Anything, tenantID, orderID, "PBM", 2).Return(cart, nil)

	c, rec := newOrderContext(t, http.MethodPost, `{"code":"PBM","quantity":2}`, tenantID)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	assert.NoError(t, h.AddItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got services.Cart
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 220.0, got.Total)
	svc.AssertExpectations(t)
}

func TestAddItem_OmittedQuantityDefaultsToOne(t *testing.T) {
	svc := &MockOrderService{}
	svc.Test(t)
	h := NewOrderHandlers(svc)

	tenantID := uuid.New()
	orderID := uuid.New()
	cart := &services.Cart{
		OrderID:  orderID,
		Status:   models.OrderStatusOpen,
		Subtotal: 100, Tax: 10, Total: 110,
	}
	svc.On("AddItem", mock.Anything, tenantID, orderID, "PBM", 1).Return(cart, nil)

	c, rec := newOrderContext(t, http.MethodPost, `{"code":"PBM"}`, tenantID)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	assert.NoError(t, h.AddItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestAddItem_ExplicitZeroQuantityRejected(t *testing.T) {
	svc := &MockOrderService{}
	svc.Test(t)
	h := NewOrderHandlers(svc)

	tenantID := uuid.New()
	orderID := uuid.New()
	svc.On("AddItem", mock.Anything, tenantID, orderID, "PBM", 0).
		Return(nil, common.NewInvalidInput("quantity must be positive"))

	c, rec := newOrderContext(t, http.MethodPost, `{"code":"PBM","quantity":0}`, tenantID)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	assert.NoError(t, h.AddItem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestAddItem_InvalidOrderID(t *testing.T) {
	h := NewOrderHandlers(&MockOrderService{})

	c, _ := newOrderContext(t, http.MethodPost, `{"code":"PBM","quantity":2}`, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.AddItem(c)
	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPay_ConflictMapsTo409(t *testing.T) {
	svc := &MockOrderService{}
	svc.Test(t)
	h := NewOrderHandlers(svc)

	tenantID := uuid.New()
	orderID := uuid.New()
	svc.On("Pay", mock.Anything, tenantID, orderID, "CASH").
		Return(nil, common.NewConflict("order already paid or cancelled"))

	c, rec := newOrderContext(t, http.MethodPost, `{"method":"CASH"}`, tenantID)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	assert.NoError(t, h.Pay(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp common.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFLICT", resp.Error.Code)
	svc.AssertExpectations(t)
}

func TestGetOrder_NotFoundMapsTo404(t *testing.T) {
	svc := &MockOrderService{}
	svc.Test(t)
	h := NewOrderHandlers(svc)

	tenantID := uuid.New()
	orderID := uuid.New()
	svc.On("GetCart", mock.Anything, tenantID, orderID).Return(nil, common.NewNotFound("order"))

	c, rec := newOrderContext(t, http.MethodGet, "", tenantID)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	assert.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateOrder_ConflictCarriesExistingOrderID(t *testing.T) {
	svc := &MockOrderService{}
	svc.Test(t)
	h := NewOrderHandlers(svc)

	tenantID := uuid.New()
	existingID := uuid.New()
	table := 7
	svc.On("CreateOrder", mock.Anything, tenantID, services.CreateOrderInput{
		OrderType:   models.OrderTypeDineIn,
		TableNumber: &table,
	}).Return(nil, common.NewConflict("table already has an open order").
		WithDetail("order_id", existingID.String()))

	c, rec := newOrderContext(t, http.MethodPost, `{"order_type":"DINE_IN","table_number":7}`, tenantID)

	assert.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp common.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, existingID.String(), resp.Error.Details["order_id"])
	svc.AssertExpectations(t)
}

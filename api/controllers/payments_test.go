package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/api/middleware"
	checkoutsvc "github.com/mvalencia/storefront-backend/internal/checkout"
	ordersvc "github.com/mvalencia/storefront-backend/internal/orders"
	"github.com/mvalencia/storefront-backend/pkg/enums"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/logger"
)

type stubCheckoutService struct {
	intent     checkoutsvc.IntentDTO
	intentErr  error
	detail     ordersvc.OrderDetailDTO
	confirmErr error
	confirmed  []checkoutsvc.ConfirmInput
}

func (s *stubCheckoutService) InitiateCheckout(ctx context.Context, userID uuid.UUID, requestedAmount decimal.Decimal, currency string) (checkoutsvc.IntentDTO, error) {
	if s.intentErr != nil {
		return checkoutsvc.IntentDTO{}, s.intentErr
	}
	return s.intent, nil
}

func (s *stubCheckoutService) ConfirmCheckout(ctx context.Context, in checkoutsvc.ConfirmInput) (ordersvc.OrderDetailDTO, error) {
	s.confirmed = append(s.confirmed, in)
	if s.confirmErr != nil {
		return ordersvc.OrderDetailDTO{}, s.confirmErr
	}
	return s.detail, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestCreatePaymentIntent(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	stub := &stubCheckoutService{intent: checkoutsvc.IntentDTO{
		PaymentIntentID: "pi_1",
		ClientSecret:    "secret",
		Total:           decimal.RequireFromString("37.00"),
		Currency:        enums.CurrencyUSD,
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-intent", strings.NewReader(`{"amount":37.00,"currency":"usd"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()
	CreatePaymentIntent(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Data checkoutsvc.IntentDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.PaymentIntentID != "pi_1" || body.Data.ClientSecret != "secret" {
		t.Fatalf("unexpected intent payload %+v", body.Data)
	}
}

func TestCreatePaymentIntentRequiresAuth(t *testing.T) {
	stub := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-intent", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	CreatePaymentIntent(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestCreatePaymentIntentEmptyCart(t *testing.T) {
	stub := &stubCheckoutService{intentErr: pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-intent", strings.NewReader(`{"amount":37.00}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	CreatePaymentIntent(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCreatePaymentIntentRequiresPositiveAmount(t *testing.T) {
	stub := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-intent", strings.NewReader(`{"amount":0}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	CreatePaymentIntent(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestConfirmPayment(t *testing.T) {
	userID := uuid.New()
	stub := &stubCheckoutService{detail: ordersvc.OrderDetailDTO{
		OrderNumber:   "ORD-ABCDEF1234567",
		Status:        enums.OrderStatusProcessing,
		PaymentStatus: enums.PaymentStatusPaid,
	}}

	body := `{"payment_intent_id":"pi_1","shipping_address":{"name":"A","line1":"1 St","city":"Austin","postal_code":"78701","country":"US"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()
	ConfirmPayment(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(stub.confirmed) != 1 {
		t.Fatalf("expected one confirm call, got %d", len(stub.confirmed))
	}
	in := stub.confirmed[0]
	if in.UserID != userID || in.PaymentIntentID != "pi_1" {
		t.Fatalf("unexpected confirm input %+v", in)
	}
	if in.ShippingAddress == nil || in.ShippingAddress.City != "Austin" {
		t.Fatalf("shipping address not forwarded: %+v", in.ShippingAddress)
	}
}

func TestConfirmPaymentRequiresIntentID(t *testing.T) {
	stub := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	ConfirmPayment(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if len(stub.confirmed) != 0 {
		t.Fatalf("service should not be called on invalid payload")
	}
}

func TestConfirmPaymentRequiresShippingAddress(t *testing.T) {
	stub := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", strings.NewReader(`{"payment_intent_id":"pi_1"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	ConfirmPayment(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if len(stub.confirmed) != 0 {
		t.Fatalf("service should not be called without a shipping address")
	}
}

func TestConfirmPaymentRejectsIncompleteShippingAddress(t *testing.T) {
	stub := &stubCheckoutService{}
	body := `{"payment_intent_id":"pi_1","shipping_address":{"name":"A","line1":"1 St"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	ConfirmPayment(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if len(stub.confirmed) != 0 {
		t.Fatalf("service should not be called on a malformed address")
	}
}

func TestConfirmPaymentAmountMismatch(t *testing.T) {
	stub := &stubCheckoutService{confirmErr: pkgerrors.New(pkgerrors.CodeAmountMismatch, "paid amount does not match the cart total")}
	body := `{"payment_intent_id":"pi_1","shipping_address":{"name":"A","line1":"1 St","city":"Austin","postal_code":"78701","country":"US"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	ConfirmPayment(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

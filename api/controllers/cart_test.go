package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/api/middleware"
	cartsvc "github.com/mvalencia/storefront-backend/internal/cart"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
)

type stubCartService struct {
	dto     cartsvc.CartDTO
	err     error
	adds    []int
	cleared bool
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (cartsvc.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (cartsvc.CartDTO, error) {
	s.adds = append(s.adds, quantity)
	if s.err != nil {
		return cartsvc.CartDTO{}, s.err
	}
	return s.dto, nil
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (cartsvc.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (cartsvc.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return s.err
}

func TestGetCart(t *testing.T) {
	stub := &stubCartService{dto: cartsvc.CartDTO{
		ItemCount: 2,
		Subtotal:  decimal.RequireFromString("25.00"),
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	GetCart(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var body struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.ItemCount != 2 {
		t.Fatalf("unexpected cart payload %+v", body.Data)
	}
}

func TestGetCartRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	GetCart(&stubCartService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAddCartItem(t *testing.T) {
	stub := &stubCartService{}
	body := `{"product_id":"` + uuid.NewString() + `","quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	AddCartItem(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(stub.adds) != 1 || stub.adds[0] != 3 {
		t.Fatalf("unexpected add calls %v", stub.adds)
	}
}

func TestAddCartItemRejectsZeroQuantity(t *testing.T) {
	stub := &stubCartService{}
	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	AddCartItem(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if len(stub.adds) != 0 {
		t.Fatalf("service should not be called for invalid quantity")
	}
}

func TestAddCartItemInsufficientStock(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock")}
	body := `{"product_id":"` + uuid.NewString() + `","quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	AddCartItem(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestClearCart(t *testing.T) {
	stub := &stubCartService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	ClearCart(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !stub.cleared {
		t.Fatalf("expected clear to be invoked")
	}
}

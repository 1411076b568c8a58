package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type countingStore struct {
	counts map[string]int64
}

func (s *countingStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.counts == nil {
		s.counts = make(map[string]int64)
	}
	s.counts[key]++
	return s.counts[key], nil
}

func TestPaymentRateLimitBlocksAfterLimit(t *testing.T) {
	store := &countingStore{}
	policy := NewPaymentRateLimitPolicy("confirm", time.Minute, 2, 0)
	handler := PaymentRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d expected 200 got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestPaymentRateLimitCountsPerUser(t *testing.T) {
	store := &countingStore{}
	policy := NewPaymentRateLimitPolicy("confirm", time.Minute, 0, 1)
	handler := PaymentRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-a"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("first request expected 200 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-a"))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-b"))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("other user expected 200 got %d", resp.Code)
	}
}

func TestPaymentRateLimitDisabledWithoutStore(t *testing.T) {
	policy := NewPaymentRateLimitPolicy("confirm", time.Minute, 1, 1)
	handler := PaymentRateLimit(policy, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected pass-through without store, got %d", resp.Code)
		}
	}
}

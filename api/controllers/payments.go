package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/api/responses"
	"github.com/mvalencia/storefront-backend/api/validators"
	"github.com/mvalencia/storefront-backend/internal/checkout"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/logger"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

type createIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string         `json:"payment_intent_id" validate:"required"`
	ShippingAddress *types.Address `json:"shipping_address" validate:"required"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
}

// CreatePaymentIntent prices the cart server-side and opens an intent with
// the gateway. The response carries the client secret plus the quoted totals.
func CreatePaymentIntent(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.Amount.IsPositive() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive decimal"))
			return
		}
		currency := payload.Currency
		if currency == "" {
			currency = "usd"
		}

		intent, err := svc.InitiateCheckout(r.Context(), userID, payload.Amount, currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, intent)
	}
}

// ConfirmPayment verifies the payment with the gateway and finalizes the
// order. Confirming the same payment twice returns the same order.
func ConfirmPayment(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.ConfirmCheckout(r.Context(), checkout.ConfirmInput{
			UserID:          userID,
			PaymentIntentID: payload.PaymentIntentID,
			ShippingAddress: payload.ShippingAddress,
			BillingAddress:  payload.BillingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/pkg/enums"
)

// IntentDTO is returned when a checkout is initiated: the client finishes the
// payment with the gateway using the client secret, then confirms.
type IntentDTO struct {
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientSecret    string          `json:"client_secret"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	Currency        enums.Currency  `json:"currency"`
}

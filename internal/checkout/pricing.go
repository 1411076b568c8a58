package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/pkg/config"
	"github.com/mvalencia/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/money"
)

// QuoteLine carries one cart line priced at its effective unit price, with
// the product fields that will be snapshotted onto the order.
type QuoteLine struct {
	ProductID uuid.UUID
	Name      string
	SKU       string
	Image     string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
	Stock     int
}

// Quote is the server-side pricing of a cart under the current policy.
type Quote struct {
	Lines    []QuoteLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// BuildQuote prices the cart. Sale price wins over list price when set; tax
// and shipping come from the checkout policy.
func BuildQuote(items []models.CartItem, cfg config.CheckoutConfig) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	quote := Quote{Lines: make([]QuoteLine, 0, len(items))}
	subtotal := decimal.Zero

	for _, item := range items {
		if item.Product == nil {
			return Quote{}, pkgerrors.New(pkgerrors.CodeProductDataMissing,
				"cart line is missing its product").WithDetails(map[string]any{"product_id": item.ProductID})
		}
		// A nameless product cannot be snapshotted onto an order line.
		if item.Product.Name == "" {
			return Quote{}, pkgerrors.New(pkgerrors.CodeProductDataMissing,
				"product is missing its name").WithDetails(map[string]any{"product_id": item.ProductID})
		}
		if item.Quantity <= 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "cart line quantity must be positive")
		}

		unit := item.Product.EffectivePrice()
		lineTotal := money.Round(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))

		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			SKU:       item.Product.SKU,
			Image:     item.Product.FirstImage(),
			UnitPrice: unit,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			Stock:     item.Product.Stock,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	quote.Subtotal = money.Round(subtotal)
	quote.Tax = money.Round(quote.Subtotal.Mul(cfg.TaxRateDecimal()))
	quote.Shipping = money.Round(cfg.FlatShippingDecimal())
	quote.Total = quote.Subtotal.Add(quote.Tax).Add(quote.Shipping)
	return quote, nil
}

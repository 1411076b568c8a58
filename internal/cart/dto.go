package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/pkg/db/models"
	"github.com/mvalencia/storefront-backend/pkg/money"
)

// CartItemDTO is one line of the cart view, priced at the effective price.
type CartItemDTO struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Image        string          `json:"image,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	Stock        int             `json:"stock"`
}

// CartDTO is the full cart view plus the running subtotal.
type CartDTO struct {
	Items     []CartItemDTO   `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func toCartItemDTO(item models.CartItem) CartItemDTO {
	dto := CartItemDTO{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		unit := item.Product.EffectivePrice()
		dto.Name = item.Product.Name
		dto.SKU = item.Product.SKU
		dto.Image = item.Product.FirstImage()
		dto.Stock = item.Product.Stock
		dto.UnitPrice = unit
		dto.LineSubtotal = money.Round(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return dto
}

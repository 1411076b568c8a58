package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/pkg/db/models"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

// ProductDTO is the catalog view returned by listing and detail endpoints.
type ProductDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	SKU       string           `json:"sku"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	Stock     int              `json:"stock"`
	Images    []string         `json:"images"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ProductListDTO wraps a page of products plus pagination metadata.
type ProductListDTO struct {
	Products   []ProductDTO `json:"products"`
	Pagination types.Page   `json:"pagination"`
}

func toProductDTO(product models.Product) ProductDTO {
	return ProductDTO{
		ID:        product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		Price:     product.Price,
		SalePrice: product.SalePrice,
		Stock:     product.Stock,
		Images:    product.Images,
		IsActive:  product.IsActive,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

package wishlist

import (
	"time"

	"github.com/mvalencia/storefront-backend/internal/products"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

// WishlistItemDTO wraps the product view included in a wishlist row.
type WishlistItemDTO struct {
	Product   products.ProductDTO `json:"product"`
	CreatedAt time.Time           `json:"created_at"`
}

// WishlistPageDTO returns a paginated wishlist view.
type WishlistPageDTO struct {
	Items      []WishlistItemDTO `json:"items"`
	Pagination types.Page        `json:"pagination"`
}

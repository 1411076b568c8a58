package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvalencia/storefront-backend/internal/products"
	"github.com/mvalencia/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/pagination"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  products.Repository
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, userID uuid.UUID, params pagination.Params) (WishlistPageDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	wishlistRepo *Repository
	productRepo  products.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
	}, nil
}

// GetWishlist returns the paginated wishlist for a user.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID, params pagination.Params) (WishlistPageDTO, error) {
	if userID == uuid.Nil {
		return WishlistPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	records, total, err := s.wishlistRepo.ListItems(ctx, userID, params)
	if err != nil {
		return WishlistPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}

	items := make([]WishlistItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toWishlistItemDTO(record))
	}

	return WishlistPageDTO{
		Items: items,
		Pagination: types.Page{
			CurrentPage: params.PageNumber(),
			PerPage:     params.PerPage(),
			Total:       total,
			LastPage:    pagination.LastPage(total, params.Limit),
		},
	}, nil
}

// AddItem ensures the product exists and adds it to the wishlist.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return s.wishlistRepo.AddItem(ctx, userID, productID)
}

// RemoveItem drops the wishlist entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.wishlistRepo.RemoveItem(ctx, userID, productID)
}

func toWishlistItemDTO(record models.WishlistItem) WishlistItemDTO {
	dto := WishlistItemDTO{CreatedAt: record.CreatedAt}
	if record.Product != nil {
		product := *record.Product
		dto.Product = products.ProductDTO{
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
	return dto
}

package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/pagination"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

// Service exposes read access to the product catalog.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params) (ProductListDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (ProductDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a product service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params) (ProductListDTO, error) {
	records, total, err := s.repo.List(ctx, params)
	if err != nil {
		return ProductListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toProductDTO(record))
	}

	return ProductListDTO{
		Products: items,
		Pagination: types.Page{
			CurrentPage: params.PageNumber(),
			PerPage:     params.PerPage(),
			Total:       total,
			LastPage:    pagination.LastPage(total, params.Limit),
		},
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	if id == uuid.Nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toProductDTO(*record), nil
}

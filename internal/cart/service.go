package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mvalencia/storefront-backend/internal/products"
	"github.com/mvalencia/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/money"
)

// MaxLineQuantity bounds how many units a single cart line may hold.
const MaxLineQuantity = 99

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    Repository
	ProductRepo products.Repository
}

// Service exposes business rules for cart management.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	cartRepo    Repository
	productRepo products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

// GetCart returns the user's cart priced at current effective prices.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildCartDTO(items), nil
}

// AddItem validates the product and accumulates quantity onto the cart line.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if err := validateLineInput(userID, productID, quantity); err != nil {
		return CartDTO{}, err
	}

	product, err := s.loadSellableProduct(ctx, productID)
	if err != nil {
		return CartDTO{}, err
	}
	if product.Stock < quantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for product "+product.Name)
	}

	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.cartRepo.Upsert(ctx, &item); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.GetCart(ctx, userID)
}

// UpdateItem replaces the quantity on an existing cart line.
func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if err := validateLineInput(userID, productID, quantity); err != nil {
		return CartDTO{}, err
	}

	product, err := s.loadSellableProduct(ctx, productID)
	if err != nil {
		return CartDTO{}, err
	}
	if product.Stock < quantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for product "+product.Name)
	}

	updated, err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	if !updated {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem drops the cart line if it exists.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	removed, err := s.cartRepo.RemoveItem(ctx, userID, productID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !removed {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.GetCart(ctx, userID)
}

// Clear deletes every cart line for the user.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cartRepo.ClearByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) loadSellableProduct(ctx context.Context, productID uuid.UUID) (*productView, error) {
	record, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !record.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return &productView{Name: record.Name, Stock: record.Stock}, nil
}

type productView struct {
	Name  string
	Stock int
}

func validateLineInput(userID, productID uuid.UUID, quantity int) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if quantity > MaxLineQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-line maximum")
	}
	return nil
}

func buildCartDTO(items []models.CartItem) CartDTO {
	dto := CartDTO{Items: make([]CartItemDTO, 0, len(items))}
	subtotal := decimal.Zero
	for _, item := range items {
		line := toCartItemDTO(item)
		dto.Items = append(dto.Items, line)
		dto.ItemCount += line.Quantity
		subtotal = subtotal.Add(line.LineSubtotal)
	}
	dto.Subtotal = money.Round(subtotal)
	return dto
}

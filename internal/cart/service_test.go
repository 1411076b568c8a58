package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mvalencia/storefront-backend/internal/products"
	"github.com/mvalencia/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/pagination"
)

type stubCartRepo struct {
	items    map[uuid.UUID]map[uuid.UUID]*models.CartItem
	products *stubProductRepo
}

func newStubCartRepo(products *stubProductRepo) *stubCartRepo {
	return &stubCartRepo{
		items:    make(map[uuid.UUID]map[uuid.UUID]*models.CartItem),
		products: products,
	}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

// ListByUser attaches the product to each line the way the real
// repository preloads it.
func (s *stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range s.items[userID] {
		copied := *item
		if s.products != nil {
			copied.Product = s.products.products[item.ProductID]
		}
		out = append(out, copied)
	}
	return out, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	if item, ok := s.items[userID][productID]; ok {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Upsert(ctx context.Context, item *models.CartItem) error {
	if s.items[item.UserID] == nil {
		s.items[item.UserID] = make(map[uuid.UUID]*models.CartItem)
	}
	if existing, ok := s.items[item.UserID][item.ProductID]; ok {
		existing.Quantity += item.Quantity
		return nil
	}
	copied := *item
	s.items[item.UserID][item.ProductID] = &copied
	return nil
}

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error) {
	if item, ok := s.items[userID][productID]; ok {
		item.Quantity = quantity
		return true, nil
	}
	return false, nil
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if _, ok := s.items[userID][productID]; ok {
		delete(s.items[userID], productID)
		return true, nil
	}
	return false, nil
}

func (s *stubCartRepo) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	delete(s.items, userID)
	return nil
}

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductRepo(products ...*models.Product) *stubProductRepo {
	repo := &stubProductRepo{products: make(map[uuid.UUID]*models.Product)}
	for _, product := range products {
		repo.products[product.ID] = product
	}
	return repo
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubProductRepo) List(ctx context.Context, params pagination.Params) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (s *stubProductRepo) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	product, ok := s.products[productID]
	if !ok || product.Stock < qty {
		return false, nil
	}
	product.Stock -= qty
	return true, nil
}

func newCartService(t *testing.T, productSeed ...*models.Product) (Service, *stubCartRepo, *stubProductRepo) {
	t.Helper()
	productRepo := newStubProductRepo(productSeed...)
	cartRepo := newStubCartRepo(productRepo)
	svc, err := NewService(ServiceParams{CartRepo: cartRepo, ProductRepo: productRepo})
	require.NoError(t, err)
	return svc, cartRepo, productRepo
}

func activeProduct(price string, stock int) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Widget",
		SKU:      "SKU-1",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}

func TestAddItemComputesSubtotalWithSalePrice(t *testing.T) {
	t.Parallel()

	product := activeProduct("25.00", 10)
	sale := decimal.RequireFromString("20.00")
	product.SalePrice = &sale

	svc, _, _ := newCartService(t, product)
	userID := uuid.New()

	dto, err := svc.AddItem(context.Background(), userID, product.ID, 2)
	require.NoError(t, err)

	require.Len(t, dto.Items, 1)
	assert.Equal(t, 2, dto.ItemCount)
	assert.True(t, dto.Subtotal.Equal(decimal.RequireFromString("40.00")),
		"expected sale price to win, got %s", dto.Subtotal)
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	t.Parallel()

	product := activeProduct("10.00", 1)
	svc, _, _ := newCartService(t, product)

	_, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 2)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	t.Parallel()

	product := activeProduct("10.00", 5)
	product.IsActive = false
	svc, _, _ := newCartService(t, product)

	_, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _, _ := newCartService(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateItemMissingLine(t *testing.T) {
	t.Parallel()

	product := activeProduct("10.00", 5)
	svc, _, _ := newCartService(t, product)

	_, err := svc.UpdateItem(context.Background(), uuid.New(), product.ID, 3)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestQuantityBounds(t *testing.T) {
	t.Parallel()

	product := activeProduct("10.00", 200)
	svc, _, _ := newCartService(t, product)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, product.ID, 0)
	require.Error(t, err)

	_, err = svc.AddItem(context.Background(), userID, product.ID, MaxLineQuantity+1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

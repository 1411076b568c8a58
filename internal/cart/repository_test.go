package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mvalencia/storefront-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  price TEXT NOT NULL,
  sale_price TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  images TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func seedCartProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		SKU:      "SKU-" + uuid.NewString(),
		Price:    decimal.RequireFromString("12.50"),
		Stock:    10,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestUpsertAccumulatesQuantity(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	product := seedCartProduct(t, db, "Widget")

	require.NoError(t, repo.Upsert(ctx, &models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 2}))
	require.NoError(t, repo.Upsert(ctx, &models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 3}))

	item, err := repo.FindItem(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Widget", items[0].Product.Name)
}

func TestUpdateQuantityReportsMissingLine(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	updated, err := repo.UpdateQuantity(ctx, uuid.New(), uuid.New(), 4)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	a := seedCartProduct(t, db, "A")
	b := seedCartProduct(t, db, "B")

	require.NoError(t, repo.Upsert(ctx, &models.CartItem{UserID: userID, ProductID: a.ID, Quantity: 1}))
	require.NoError(t, repo.Upsert(ctx, &models.CartItem{UserID: userID, ProductID: b.ID, Quantity: 1}))

	removed, err := repo.RemoveItem(ctx, userID, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveItem(ctx, userID, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, repo.ClearByUser(ctx, userID))
	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvalencia/storefront-backend/pkg/db/models"
	"github.com/mvalencia/storefront-backend/pkg/enums"
	"github.com/mvalencia/storefront-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByPaymentReference(ctx context.Context, paymentReference string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters Filters) ([]models.Order, int64, error)
	ListAll(ctx context.Context, params pagination.Params, filters Filters) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (bool, error)
	Stats(ctx context.Context) (*StatsRow, error)
}

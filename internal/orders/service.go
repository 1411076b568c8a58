package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvalencia/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/enums"
	"github.com/mvalencia/storefront-backend/pkg/logger"
	"github.com/mvalencia/storefront-backend/pkg/pagination"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service exposes read access to the order ledger plus admin status control.
type Service interface {
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params, filters Filters) (OrderListDTO, error)
	GetUserOrder(ctx context.Context, userID uuid.UUID, orderNumber string) (OrderDetailDTO, error)
	ListAllOrders(ctx context.Context, params pagination.Params, filters Filters) (OrderListDTO, error)
	GetOrder(ctx context.Context, orderNumber string) (OrderDetailDTO, error)
	UpdateStatus(ctx context.Context, orderNumber string, status string) (OrderDetailDTO, error)
	Stats(ctx context.Context) (StatsDTO, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// ListUserOrders returns the paginated order history for one user.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params, filters Filters) (OrderListDTO, error) {
	if userID == uuid.Nil {
		return OrderListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	records, total, err := s.repo.ListByUser(ctx, userID, params, filters)
	if err != nil {
		return OrderListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildOrderListDTO(records, total, params), nil
}

// GetUserOrder loads one order and hides other users' orders as not found.
func (s *service) GetUserOrder(ctx context.Context, userID uuid.UUID, orderNumber string) (OrderDetailDTO, error) {
	if userID == uuid.Nil {
		return OrderDetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	order, err := s.loadByOrderNumber(ctx, orderNumber)
	if err != nil {
		return OrderDetailDTO{}, err
	}
	if order.UserID != userID {
		return OrderDetailDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return *order, nil
}

// ListAllOrders returns the paginated order ledger across all users.
func (s *service) ListAllOrders(ctx context.Context, params pagination.Params, filters Filters) (OrderListDTO, error) {
	records, total, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return OrderListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildOrderListDTO(records, total, params), nil
}

// GetOrder loads any order by its number.
func (s *service) GetOrder(ctx context.Context, orderNumber string) (OrderDetailDTO, error) {
	order, err := s.loadByOrderNumber(ctx, orderNumber)
	if err != nil {
		return OrderDetailDTO{}, err
	}
	return *order, nil
}

// UpdateStatus moves an order to the requested status. Transitions are not
// restricted beyond the status being a known value.
func (s *service) UpdateStatus(ctx context.Context, orderNumber string, status string) (OrderDetailDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return OrderDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	order, err := s.loadByOrderNumber(ctx, orderNumber)
	if err != nil {
		return OrderDetailDTO{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, order.ID, parsed)
	if err != nil {
		return OrderDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !updated {
		return OrderDetailDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	if s.logg != nil {
		ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
		s.logg.Info(ctx, "order status updated to "+parsed.String())
	}

	order.Status = parsed
	return *order, nil
}

// Stats aggregates the ledger for the admin dashboard.
func (s *service) Stats(ctx context.Context) (StatsDTO, error) {
	row, err := s.repo.Stats(ctx)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate orders")
	}
	return StatsDTO{
		Total:      row.Total,
		Pending:    row.Pending,
		Confirmed:  row.Confirmed,
		Processing: row.Processing,
		Shipped:    row.Shipped,
		Delivered:  row.Delivered,
		Cancelled:  row.Cancelled,
		TotalValue: row.TotalValue,
	}, nil
}

func (s *service) loadByOrderNumber(ctx context.Context, orderNumber string) (*OrderDetailDTO, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	record, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := ToOrderDetailDTO(*record)
	return &dto, nil
}

func buildOrderListDTO(records []models.Order, total int64, params pagination.Params) OrderListDTO {
	summaries := make([]OrderSummaryDTO, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, toOrderSummaryDTO(record))
	}
	return OrderListDTO{
		Orders: summaries,
		Pagination: types.Page{
			CurrentPage: params.PageNumber(),
			PerPage:     params.PerPage(),
			Total:       total,
			LastPage:    pagination.LastPage(total, params.Limit),
		},
	}
}

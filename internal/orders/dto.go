package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/pkg/db/models"
	"github.com/mvalencia/storefront-backend/pkg/enums"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

// Filters describe the inputs supported by the order listing queries.
type Filters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}

// OrderItemDTO is a snapshotted line as it was sold.
type OrderItemDTO struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku,omitempty"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Total        decimal.Decimal `json:"total"`
}

// OrderSummaryDTO exposes the fields returned in order listings.
type OrderSummaryDTO struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Currency      enums.Currency      `json:"currency"`
	ItemCount     int                 `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderDetailDTO is the full order view including snapshots and addresses.
type OrderDetailDTO struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	UserID           uuid.UUID           `json:"user_id"`
	Status           enums.OrderStatus   `json:"status"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	TaxAmount        decimal.Decimal     `json:"tax_amount"`
	ShippingAmount   decimal.Decimal     `json:"shipping_amount"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Currency         enums.Currency      `json:"currency"`
	PaymentReference string              `json:"payment_reference"`
	ShippingAddress  *types.Address      `json:"shipping_address,omitempty"`
	BillingAddress   *types.Address      `json:"billing_address,omitempty"`
	Items            []OrderItemDTO      `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderListDTO wraps a page of order summaries plus pagination metadata.
type OrderListDTO struct {
	Orders     []OrderSummaryDTO `json:"orders"`
	Pagination types.Page        `json:"pagination"`
}

// StatsRow carries the raw aggregates scanned from the orders table.
type StatsRow struct {
	Total      int64           `gorm:"column:total"`
	Pending    int64           `gorm:"column:pending"`
	Confirmed  int64           `gorm:"column:confirmed"`
	Processing int64           `gorm:"column:processing"`
	Shipped    int64           `gorm:"column:shipped"`
	Delivered  int64           `gorm:"column:delivered"`
	Cancelled  int64           `gorm:"column:cancelled"`
	TotalValue decimal.Decimal `gorm:"column:total_value"`
}

// StatsDTO exposes the admin dashboard aggregates.
type StatsDTO struct {
	Total      int64           `json:"total"`
	Pending    int64           `json:"pending"`
	Confirmed  int64           `json:"confirmed"`
	Processing int64           `json:"processing"`
	Shipped    int64           `json:"shipped"`
	Delivered  int64           `json:"delivered"`
	Cancelled  int64           `json:"cancelled"`
	TotalValue decimal.Decimal `json:"total_value"`
}

func toOrderItemDTO(item models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductSKU:   item.ProductSKU,
		ProductImage: item.ProductImage,
		Quantity:     item.Quantity,
		Price:        item.Price,
		Total:        item.Total,
	}
}

func toOrderSummaryDTO(order models.Order) OrderSummaryDTO {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderSummaryDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		ItemCount:     count,
		CreatedAt:     order.CreatedAt,
	}
}

// ToOrderDetailDTO converts a loaded order row into its API representation.
func ToOrderDetailDTO(order models.Order) OrderDetailDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, toOrderItemDTO(item))
	}
	return OrderDetailDTO{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		UserID:           order.UserID,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		Subtotal:         order.Subtotal,
		TaxAmount:        order.TaxAmount,
		ShippingAmount:   order.ShippingAmount,
		TotalAmount:      order.TotalAmount,
		Currency:         order.Currency,
		PaymentReference: order.PaymentReference,
		ShippingAddress:  order.ShippingAddress,
		BillingAddress:   order.BillingAddress,
		Items:            items,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

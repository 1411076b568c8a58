package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvalencia/storefront-backend/pkg/enums"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

// Order is the immutable record produced by a successful checkout.
// PaymentReference carries the gateway's payment intent id; its unique index
// is what makes order creation idempotent per external charge.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber      string              `gorm:"column:order_number;not null;uniqueIndex:idx_orders_order_number"`
	UserID           uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	Subtotal         decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TaxAmount        decimal.Decimal     `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	ShippingAmount   decimal.Decimal     `gorm:"column:shipping_amount;type:numeric(12,2);not null"`
	TotalAmount      decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Currency         enums.Currency      `gorm:"column:currency;type:text;not null;default:'usd'"`
	PaymentReference string              `gorm:"column:payment_reference;not null;uniqueIndex:idx_orders_payment_reference"`
	ShippingAddress  *types.Address      `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress   *types.Address      `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Items            []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User             *User               `gorm:"foreignKey:UserID"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

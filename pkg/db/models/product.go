package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the catalog subset checkout depends on: pricing, stock and the
// identity fields snapshotted onto order lines.
type Product struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string           `gorm:"column:name;not null"`
	SKU       string           `gorm:"column:sku;not null"`
	Price     decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	SalePrice *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	Stock     int              `gorm:"column:stock;not null;default:0"`
	Images    pq.StringArray   `gorm:"column:images;type:text[]"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the sale price when one is set, else the list price.
// A zero sale price counts as set; only a NULL column falls back.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// FirstImage returns the leading image reference, or empty when none exist.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvalencia/storefront-backend/pkg/enums"
)

// User is the storefront account owning carts, wishlists and orders.
// Credential management lives outside this service; only the identity
// subset needed for order attribution is modeled here.
type User struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string           `gorm:"column:name;not null"`
	Email     string           `gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	Role      enums.MemberRole `gorm:"column:role;type:text;not null;default:'customer'"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

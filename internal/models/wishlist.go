// internal/models/wishlist.go
package models

import (
	"github.com/google/uuid"
)

// Wishlist is a saved-for-later product reference, unique per (user, product).
type Wishlist struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_product"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// internal/models/product.go
package models

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Title           string              `json:"title" gorm:"size:255;not null;index"`
	Author          string              `json:"author" gorm:"size:255;index"`
	Description     string              `json:"description" gorm:"type:text"`
	Price           decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);not null"`
	SalePrice       decimal.NullDecimal `json:"sale_price" gorm:"type:decimal(10,2)"`
	Stock           int                 `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	Image           string              `json:"image" gorm:"size:512"`
	Featured        bool                `json:"featured" gorm:"default:false;index"`
	SalesCount      int64               `json:"sales_count" gorm:"not null;default:0;check:sales_count >= 0"`
	Publisher       string              `json:"publisher" gorm:"size:255"`
	PublicationYear int                 `json:"publication_year"`
	Language        string              `json:"language" gorm:"size:50"`
	Pages           int                 `json:"pages"`
	Tags            pq.StringArray      `json:"tags" gorm:"type:text[]"`

	// Relationships
	Categories   []Category    `json:"categories,omitempty" gorm:"many2many:product_categories;constraint:OnDelete:CASCADE"`
	Reviews      []Review      `json:"reviews,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Wishlists    []Wishlist    `json:"wishlists,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CartItems    []CartItem    `json:"cart_items,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	OrderDetails []OrderDetail `json:"order_details,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// EffectivePrice returns the sale price when one is set, the list price
// otherwise. Order details snapshot this value at placement time.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}

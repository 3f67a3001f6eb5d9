// internal/models/category.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image" gorm:"size:512"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"many2many:product_categories;constraint:OnDelete:CASCADE"`
}

// ProductCategory is the explicit join entity between products and
// categories. It replaced the legacy products.category_id column; the join
// table carries a composite primary key and cascades from either side.
type ProductCategory struct {
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

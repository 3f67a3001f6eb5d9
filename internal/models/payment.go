// internal/models/payment.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records external-provider state for one order. PaymentIntentID is
// the provider's identifier and acts as the idempotency key: the unique
// index guarantees at most one row per provider transaction, even under
// concurrent writers.
type Payment struct {
	BaseModel
	OrderID              uuid.UUID           `json:"order_id" gorm:"type:uuid;not null;index"`
	UserID               *uuid.UUID          `json:"user_id" gorm:"type:uuid;index"`
	PaymentIntentID      string              `json:"payment_intent_id" gorm:"uniqueIndex;size:255;not null"`
	Amount               decimal.Decimal     `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency             string              `json:"currency" gorm:"size:10;not null;default:'usd'"`
	Status               PaymentStatus       `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod        string              `json:"payment_method" gorm:"size:50"`
	PaymentMethodDetails JSONB               `json:"payment_method_details" gorm:"type:jsonb"`
	ReceiptURL           string              `json:"receipt_url" gorm:"size:512"`
	RefundedAmount       decimal.NullDecimal `json:"refunded_amount" gorm:"type:decimal(10,2)"`
	RefundReason         string              `json:"refund_reason,omitempty" gorm:"type:text"`

	// Relationships
	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

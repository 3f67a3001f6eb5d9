// internal/services/payment_service.go
package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/models"
	"github.com/pagebound/bookstore-backend/internal/utils"
)

// PaymentService records external-provider payment state. The provider owns
// the transition graph; this layer only enforces set membership and the
// payment_intent_id idempotency key.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

type RecordPaymentRequest struct {
	OrderID              uuid.UUID            `json:"order_id" validate:"required"`
	UserID               *uuid.UUID           `json:"user_id"`
	PaymentIntentID      string               `json:"payment_intent_id" validate:"required,max=255"`
	Amount               decimal.Decimal      `json:"amount"`
	Currency             string               `json:"currency" validate:"omitempty,currency"`
	Status               models.PaymentStatus `json:"status"`
	PaymentMethod        string               `json:"payment_method" validate:"omitempty,max=50"`
	PaymentMethodDetails models.JSONB         `json:"payment_method_details"`
	ReceiptURL           string               `json:"receipt_url" validate:"omitempty,max=512"`
}

// Record inserts a payment row. The unique index on payment_intent_id is
// the idempotency key: a second insert for the same provider transaction
// fails with a conflict rather than creating a duplicate record.
func (s *PaymentService) Record(req *RecordPaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid payment", err)
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.New(apperrors.ErrValidation, "amount must be positive")
	}

	status := req.Status
	if status == "" {
		status = models.PaymentStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.Newf(apperrors.ErrValidation, "unknown payment status %q", status)
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	payment := &models.Payment{
		OrderID:              req.OrderID,
		UserID:               req.UserID,
		PaymentIntentID:      req.PaymentIntentID,
		Amount:               req.Amount.Round(2),
		Currency:             currency,
		Status:               status,
		PaymentMethod:        req.PaymentMethod,
		PaymentMethodDetails: req.PaymentMethodDetails,
		ReceiptURL:           req.ReceiptURL,
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.FromDB(err, "payment")
	}

	return payment, nil
}

// SetStatus accepts any member of the closed status set. Transitions come
// from provider notifications and are not validated against a graph.
func (s *PaymentService) SetStatus(paymentIntentID string, status models.PaymentStatus, receiptURL string) (*models.Payment, error) {
	if !status.Valid() {
		return nil, apperrors.Newf(apperrors.ErrValidation, "unknown payment status %q", status)
	}

	payment, err := s.GetByIntentID(paymentIntentID)
	if err != nil {
		return nil, err
	}

	payment.Status = status
	if receiptURL != "" {
		payment.ReceiptURL = receiptURL
	}

	if err := s.db.Save(payment).Error; err != nil {
		return nil, apperrors.FromDB(err, "payment")
	}

	return payment, nil
}

// RecordRefund marks a payment refunded and stores the amount and reason
// reported by the provider.
func (s *PaymentService) RecordRefund(paymentIntentID string, amount decimal.Decimal, reason string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, apperrors.New(apperrors.ErrValidation, "refund amount must be positive")
	}

	payment, err := s.GetByIntentID(paymentIntentID)
	if err != nil {
		return nil, err
	}

	if amount.GreaterThan(payment.Amount) {
		return nil, apperrors.New(apperrors.ErrValidation, "refund amount exceeds payment amount")
	}

	payment.Status = models.PaymentStatusRefunded
	payment.RefundedAmount = decimal.NullDecimal{Decimal: amount.Round(2), Valid: true}
	payment.RefundReason = reason

	if err := s.db.Save(payment).Error; err != nil {
		return nil, apperrors.FromDB(err, "payment")
	}

	return payment, nil
}

func (s *PaymentService) GetByIntentID(paymentIntentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, "payment_intent_id = ?", paymentIntentID).Error; err != nil {
		return nil, apperrors.FromDB(err, "payment")
	}
	return &payment, nil
}

func (s *PaymentService) ListForOrder(orderID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("order_id = ?", orderID).Order("created_at").Find(&payments).Error; err != nil {
		return nil, apperrors.FromDB(err, "payments")
	}
	return payments, nil
}

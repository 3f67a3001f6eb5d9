// internal/services/order_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/database"
	"github.com/pagebound/bookstore-backend/internal/models"
	"github.com/pagebound/bookstore-backend/internal/utils"
)

// OrderService finalizes carts into immutable order snapshots.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// PlaceOrder snapshots the user's cart into an order in one transaction:
// order details capture the unit price in effect, stock is decremented,
// sales counters bumped and the cart emptied. The non-negative stock check
// constraint makes concurrent oversells fail at the storage layer.
func (s *OrderService) PlaceOrder(userID uuid.UUID, phoneNumber *string) (*models.Order, error) {
	var order *models.Order

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items").Preload("Items.Product").
			Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return apperrors.FromDB(err, "cart")
		}
		if len(cart.Items) == 0 {
			return apperrors.New(apperrors.ErrValidation, "cart is empty")
		}

		total := decimal.Zero
		details := make([]models.OrderDetail, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.Product == nil {
				return apperrors.New(apperrors.ErrInternal, "cart item is missing its product")
			}

			unitPrice := item.Product.EffectivePrice()
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			details = append(details, models.OrderDetail{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
			})

			result := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Updates(map[string]interface{}{
					"stock":       gorm.Expr("stock - ?", item.Quantity),
					"sales_count": gorm.Expr("sales_count + ?", item.Quantity),
				})
			if result.Error != nil {
				if errors.Is(result.Error, gorm.ErrCheckConstraintViolated) {
					return apperrors.Newf(apperrors.ErrValidation,
						"insufficient stock for product %s", item.ProductID)
				}
				return apperrors.FromDB(result.Error, "product stock")
			}
		}

		order = &models.Order{
			UserID:      userID,
			PhoneNumber: phoneNumber,
			Status:      models.OrderStatusPending,
			TotalAmount: total.Round(2),
			Details:     details,
		}
		if err := tx.Create(order).Error; err != nil {
			return apperrors.FromDB(err, "order")
		}

		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return apperrors.FromDB(err, "cart items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) GetByID(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Details").Preload("Details.Product").Preload("Payments").
		First(&order, "id = ?", orderID).Error; err != nil {
		return nil, apperrors.FromDB(err, "order")
	}
	return &order, nil
}

func (s *OrderService) ListForUser(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	params = utils.NormalizePagination(params)

	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "orders")
	}

	query = utils.ApplySort(query, params, []string{"created_at", "total_amount", "status"})
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Details").Find(&orders).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "orders")
	}

	return orders, total, nil
}

// SetStatus moves an order through fulfilment states. Order lines stay
// immutable regardless of status.
func (s *OrderService) SetStatus(orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	switch status {
	case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		return nil, apperrors.Newf(apperrors.ErrValidation, "unknown order status %q", status)
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		return nil, apperrors.FromDB(err, "order")
	}

	order.Status = status
	if err := s.db.Save(&order).Error; err != nil {
		return nil, apperrors.FromDB(err, "order")
	}

	return &order, nil
}

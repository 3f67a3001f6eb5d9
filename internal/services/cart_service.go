// internal/services/cart_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/database"
	"github.com/pagebound/bookstore-backend/internal/models"
)

// CartService manages the editable pre-purchase state. Each user has at
// most one cart (unique index on carts.user_id).
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetOrCreateCart returns the user's cart, creating it on first use.
func (s *CartService) GetOrCreateCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Preload("Items.Product").
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "cart")
	}
	return &cart, nil
}

// AddItem adds quantity of a product to the user's cart, incrementing the
// existing line when one is already present.
func (s *CartService) AddItem(userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.New(apperrors.ErrValidation, "quantity must be at least 1")
	}

	var item models.CartItem
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
			return apperrors.FromDB(err, "cart")
		}

		err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity += quantity
			if err := tx.Save(&item).Error; err != nil {
				return apperrors.FromDB(err, "cart item")
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
			if err := tx.Create(&item).Error; err != nil {
				return apperrors.FromDB(err, "cart item")
			}
			return nil
		default:
			return apperrors.FromDB(err, "cart item")
		}
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemQuantity sets a line's quantity. Quantities below 1 are
// rejected; removal is an explicit operation.
func (s *CartService) UpdateItemQuantity(userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.New(apperrors.ErrValidation, "quantity must be at least 1")
	}

	var item models.CartItem
	err := s.db.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "cart item")
	}

	item.Quantity = quantity
	if err := s.db.Save(&item).Error; err != nil {
		return nil, apperrors.FromDB(err, "cart item")
	}

	return &item, nil
}

func (s *CartService) RemoveItem(userID, itemID uuid.UUID) error {
	// Hard delete: a soft-deleted row would keep holding the unique
	// (cart_id, product_id) slot and block re-adding the product.
	result := s.db.Unscoped().
		Where("id = ? AND cart_id IN (?)", itemID,
			s.db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "cart item")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "cart item not found")
	}
	return nil
}

// Clear removes every line from the user's cart.
func (s *CartService) Clear(userID uuid.UUID) error {
	var cart models.Cart
	if err := s.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return apperrors.FromDB(err, "cart")
	}

	if err := s.db.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return apperrors.FromDB(err, "cart items")
	}
	return nil
}

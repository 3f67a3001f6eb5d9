// internal/services/wishlist_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/models"
)

type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// Add saves a product for later. The unique (user, product) index turns a
// repeated add into a conflict.
func (s *WishlistService) Add(userID, productID uuid.UUID) (*models.Wishlist, error) {
	entry := &models.Wishlist{UserID: userID, ProductID: productID}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.FromDB(err, "wishlist entry")
	}
	return entry, nil
}

func (s *WishlistService) Remove(userID, productID uuid.UUID) error {
	result := s.db.Unscoped().
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Wishlist{})
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "wishlist entry")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "wishlist entry not found")
	}
	return nil
}

func (s *WishlistService) ListForUser(userID uuid.UUID) ([]models.Wishlist, error) {
	var entries []models.Wishlist
	err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "wishlist")
	}
	return entries, nil
}

// internal/services/review_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/models"
	"github.com/pagebound/bookstore-backend/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type CreateReviewRequest struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Create rejects out-of-range ratings with a validation error; values are
// never clamped.
func (s *ReviewService) Create(req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid review", err)
	}

	review := &models.Review{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.db.Create(review).Error; err != nil {
		return nil, apperrors.FromDB(err, "review")
	}

	return review, nil
}

func (s *ReviewService) Update(reviewID uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid review update", err)
	}

	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, apperrors.FromDB(err, "review")
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.db.Save(&review).Error; err != nil {
		return nil, apperrors.FromDB(err, "review")
	}

	return &review, nil
}

func (s *ReviewService) Delete(reviewID uuid.UUID) error {
	result := s.db.Unscoped().Delete(&models.Review{}, "id = ?", reviewID)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "review")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "review not found")
	}
	return nil
}

func (s *ReviewService) ListForProduct(productID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	params = utils.NormalizePagination(params)

	query := s.db.Model(&models.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "reviews")
	}

	query = utils.ApplySort(query, params, []string{"created_at", "rating"})
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "reviews")
	}

	return reviews, total, nil
}

func (s *ReviewService) ProductRatingSummary(productID uuid.UUID) (*RatingSummary, error) {
	var summary RatingSummary
	err := s.db.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&summary).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "reviews")
	}
	return &summary, nil
}

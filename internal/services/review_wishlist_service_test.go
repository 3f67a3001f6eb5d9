// internal/services/review_wishlist_service_test.go
package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
)

func (s *ServiceSuite) TestReviewRatingBounds() {
	product := s.mustCreateProduct("Rated", "9.99", 5)

	for _, rating := range []int{0, 6, -1, 42} {
		user := s.mustCreateUser(fmt.Sprintf("bad%d@example.com", rating+10))
		_, err := s.reviews.Create(&CreateReviewRequest{
			UserID:    user.ID,
			ProductID: product.ID,
			Rating:    rating,
		})
		s.Require().Error(err, rating)
		s.True(apperrors.Is(err, apperrors.ErrValidation), rating)
	}

	for rating := 1; rating <= 5; rating++ {
		user := s.mustCreateUser(fmt.Sprintf("good%d@example.com", rating))
		review, err := s.reviews.Create(&CreateReviewRequest{
			UserID:    user.ID,
			ProductID: product.ID,
			Rating:    rating,
		})
		s.Require().NoError(err, rating)
		s.Equal(rating, review.Rating)
	}

	summary, err := s.reviews.ProductRatingSummary(product.ID)
	s.Require().NoError(err)
	s.Equal(int64(5), summary.Count)
	s.InDelta(3.0, summary.Average, 0.001)
}

func (s *ServiceSuite) TestReviewRequiresExistingProduct() {
	user := s.mustCreateUser("lonely@example.com")

	_, err := s.reviews.Create(&CreateReviewRequest{
		UserID:    user.ID,
		ProductID: uuid.New(),
		Rating:    3,
	})
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrForeignKey))
}

func (s *ServiceSuite) TestReviewUpdateRevalidatesRating() {
	user := s.mustCreateUser("editor@example.com")
	product := s.mustCreateProduct("Edited", "9.99", 5)

	review, err := s.reviews.Create(&CreateReviewRequest{
		UserID:    user.ID,
		ProductID: product.ID,
		Rating:    2,
	})
	s.Require().NoError(err)

	bad := 9
	_, err = s.reviews.Update(review.ID, &UpdateReviewRequest{Rating: &bad})
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrValidation))

	good := 5
	updated, err := s.reviews.Update(review.ID, &UpdateReviewRequest{Rating: &good})
	s.Require().NoError(err)
	s.Equal(5, updated.Rating)
}

func (s *ServiceSuite) TestWishlistAddRemove() {
	user := s.mustCreateUser("wisher@example.com")
	product := s.mustCreateProduct("Wanted", "9.99", 5)

	_, err := s.wishlists.Add(user.ID, product.ID)
	s.Require().NoError(err)

	_, err = s.wishlists.Add(user.ID, product.ID)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrConflict))

	entries, err := s.wishlists.ListForUser(user.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Require().NotNil(entries[0].Product)
	s.Equal("Wanted", entries[0].Product.Title)

	s.Require().NoError(s.wishlists.Remove(user.ID, product.ID))

	err = s.wishlists.Remove(user.ID, product.ID)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

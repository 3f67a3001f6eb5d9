// internal/services/user_service_test.go
package services

import (
	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/models"
)

func (s *ServiceSuite) TestCreateUser() {
	user, err := s.users.Create(&CreateUserRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret-password",
		Phone:    "+1-555-0100",
		Address: &models.Address{
			Street:  "1 Main St",
			City:    "Springfield",
			ZipCode: "12345",
			Country: "US",
		},
	})
	s.Require().NoError(err)

	s.Equal(models.RoleUser, user.Role)
	s.Equal("Springfield", user.Address.City)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual("secret-password", user.PasswordHash)
}

func (s *ServiceSuite) TestCreateUserMalformedEmail() {
	for _, email := range []string{"", "nope", "@example.com", "user@"} {
		_, err := s.users.Create(&CreateUserRequest{
			Name:     "Bad Email",
			Email:    email,
			Password: "secret-password",
		})
		s.Require().Error(err, email)
		s.True(apperrors.Is(err, apperrors.ErrValidation), email)
	}
}

func (s *ServiceSuite) TestDuplicateEmailConflict() {
	s.mustCreateUser("dupe@example.com")

	_, err := s.users.Create(&CreateUserRequest{
		Name:     "Second",
		Email:    "dupe@example.com",
		Password: "another-password",
	})
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrConflict))
}

func (s *ServiceSuite) TestValidatePassword() {
	user, err := s.users.Create(&CreateUserRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "bob-password-9",
	})
	s.Require().NoError(err)

	ok, err := s.users.ValidatePassword(user.ID, "bob-password-9")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.users.ValidatePassword(user.ID, "not-the-password")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestUpdateRehashesPassword() {
	user := s.mustCreateUser("carol@example.com")

	newPassword := "brand-new-password"
	_, err := s.users.Update(user.ID, &UpdateUserRequest{Password: &newPassword})
	s.Require().NoError(err)

	ok, err := s.users.ValidatePassword(user.ID, newPassword)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.users.ValidatePassword(user.ID, "test-password-1")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestDeleteUserRestrictedByOrders() {
	user := s.mustCreateUser("buyer@example.com")
	product := s.mustCreateProduct("Dune", "19.99", 10)

	_, err := s.carts.AddItem(user.ID, product.ID, 1)
	s.Require().NoError(err)
	_, err = s.orders.PlaceOrder(user.ID, nil)
	s.Require().NoError(err)

	err = s.users.Delete(user.ID)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrForeignKey))

	// Row survives.
	_, err = s.users.GetByID(user.ID)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestDeleteUserCascadesOwnedRows() {
	user := s.mustCreateUser("owner@example.com")
	product := s.mustCreateProduct("Hyperion", "11.25", 5)

	_, err := s.reviews.Create(&CreateReviewRequest{
		UserID:    user.ID,
		ProductID: product.ID,
		Rating:    4,
		Comment:   "good read",
	})
	s.Require().NoError(err)

	_, err = s.wishlists.Add(user.ID, product.ID)
	s.Require().NoError(err)

	_, err = s.carts.AddItem(user.ID, product.ID, 2)
	s.Require().NoError(err)

	s.Require().NoError(s.users.Delete(user.ID))

	var reviewCount, wishlistCount, cartCount int64
	s.db.Model(&models.Review{}).Where("user_id = ?", user.ID).Count(&reviewCount)
	s.db.Model(&models.Wishlist{}).Where("user_id = ?", user.ID).Count(&wishlistCount)
	s.db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount)
	s.Zero(reviewCount)
	s.Zero(wishlistCount)
	s.Zero(cartCount)
}

func (s *ServiceSuite) TestGetUserNotFound() {
	_, err := s.users.GetByEmail("ghost@example.com")
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

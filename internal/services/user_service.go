// internal/services/user_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/database"
	"github.com/pagebound/bookstore-backend/internal/models"
	"github.com/pagebound/bookstore-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserRequest struct {
	Name        string                          `json:"name" validate:"required,max=100"`
	Email       string                          `json:"email" validate:"required,email"`
	Password    string                          `json:"password" validate:"required,min=8"`
	Role        models.UserRole                 `json:"role" validate:"omitempty,oneof=user admin"`
	Phone       string                          `json:"phone" validate:"omitempty,max=30"`
	Address     *models.Address                 `json:"address"`
	Preferences *models.NotificationPreferences `json:"preferences"`
}

type UpdateUserRequest struct {
	Name        *string                         `json:"name" validate:"omitempty,max=100"`
	Email       *string                         `json:"email" validate:"omitempty,email"`
	Password    *string                         `json:"password" validate:"omitempty,min=8"`
	Phone       *string                         `json:"phone" validate:"omitempty,max=30"`
	Address     *models.Address                 `json:"address"`
	Preferences *models.NotificationPreferences `json:"preferences"`
}

// Create validates the request and inserts the user. The password is staged
// on the model and hashed inside the write path; email uniqueness is
// enforced by the database index, not an application pre-check.
func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid user", err)
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.RoleUser,
		Phone: req.Phone,
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}
	user.SetPassword(req.Password)

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}

	return user, nil
}

func (s *UserService) GetByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}
	return &user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}
	return &user, nil
}

// Update applies a partial update. A password change goes through
// SetPassword so the hashing hook fires on save.
func (s *UserService) Update(userID uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid user update", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}
	if req.Password != nil {
		user.SetPassword(*req.Password)
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}

	return &user, nil
}

// ValidatePassword compares a candidate against the stored hash.
func (s *UserService) ValidatePassword(userID uuid.UUID, password string) (bool, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return false, err
	}
	return user.CheckPassword(password), nil
}

// Delete removes the user permanently. Deletion is blocked while orders
// reference the user; reviews, wishlist entries and the cart cascade away
// with the row.
func (s *UserService) Delete(userID uuid.UUID) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return apperrors.FromDB(err, "user")
		}

		var orderCount int64
		if err := tx.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orderCount).Error; err != nil {
			return apperrors.FromDB(err, "user orders")
		}
		if orderCount > 0 {
			return apperrors.Newf(apperrors.ErrForeignKey, "cannot delete user with %d existing orders", orderCount)
		}

		// Hard delete so the ON DELETE rules fire; the restrict FK on
		// orders is the storage-level backstop for the count above.
		if err := tx.Unscoped().Delete(&user).Error; err != nil {
			return apperrors.FromDB(err, "user")
		}
		return nil
	})
}

func (s *UserService) List(params utils.PaginationParams) ([]models.User, int64, error) {
	params = utils.NormalizePagination(params)

	query := s.db.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "users")
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "email"})
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "users")
	}

	return users, total, nil
}

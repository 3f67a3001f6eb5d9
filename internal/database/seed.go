// internal/database/seed.go
package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/config"
	"github.com/pagebound/bookstore-backend/internal/models"
)

type seedProduct struct {
	product  models.Product
	category string
}

func seedCategories() []models.Category {
	return []models.Category{
		{Name: "Fiction", Description: "Novels and short stories"},
		{Name: "Science", Description: "Popular science and reference"},
		{Name: "History", Description: "History and biography"},
	}
}

func seedProducts() []seedProduct {
	return []seedProduct{
		{
			product: models.Product{
				Title:           "Dune",
				Author:          "Frank Herbert",
				Description:     "Desert-planet epic.",
				Price:           decimal.RequireFromString("19.99"),
				Stock:           25,
				Featured:        true,
				Publisher:       "Chilton Books",
				PublicationYear: 1965,
				Language:        "English",
				Pages:           412,
				Tags:            []string{"science fiction", "classic"},
			},
			category: "Fiction",
		},
		{
			product: models.Product{
				Title:           "A Brief History of Time",
				Author:          "Stephen Hawking",
				Description:     "From the Big Bang to black holes.",
				Price:           decimal.RequireFromString("14.50"),
				Stock:           40,
				Publisher:       "Bantam Books",
				PublicationYear: 1988,
				Language:        "English",
				Pages:           256,
				Tags:            []string{"physics", "cosmology"},
			},
			category: "Science",
		},
	}
}

// Seed inserts baseline fixture data for non-production environments. Every
// insert is guarded by a count on its natural key, so re-running is safe.
func Seed(db *gorm.DB, cfg *config.Config) error {
	logrus.Info("Seeding initial data")

	var adminCount int64
	db.Model(&models.User{}).Where("email = ?", cfg.Seed.AdminEmail).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Name:  "Store Administrator",
			Email: cfg.Seed.AdminEmail,
			Role:  models.RoleAdmin,
			Preferences: models.NotificationPreferences{
				EmailNotifications: true,
			},
		}
		admin.SetPassword(cfg.Seed.AdminPassword)

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logrus.WithField("email", cfg.Seed.AdminEmail).Info("Demo admin user created")
	}

	for _, category := range seedCategories() {
		var count int64
		db.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count)

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to create category %q: %w", category.Name, err)
			}
		}
	}

	for _, sp := range seedProducts() {
		var count int64
		db.Model(&models.Product{}).Where("title = ? AND author = ?", sp.product.Title, sp.product.Author).Count(&count)

		if count > 0 {
			continue
		}

		var category models.Category
		if err := db.Where("name = ?", sp.category).First(&category).Error; err != nil {
			return fmt.Errorf("seed category %q missing: %w", sp.category, err)
		}

		product := sp.product
		product.Categories = []models.Category{category}
		if err := db.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product %q: %w", product.Title, err)
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}

// SeedDown removes exactly the rows Seed inserts, matched by natural key.
func SeedDown(db *gorm.DB, cfg *config.Config) error {
	logrus.Info("Removing seeded data")

	for _, sp := range seedProducts() {
		if err := db.Unscoped().
			Where("title = ? AND author = ?", sp.product.Title, sp.product.Author).
			Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete product %q: %w", sp.product.Title, err)
		}
	}

	for _, category := range seedCategories() {
		if err := db.Unscoped().Where("name = ?", category.Name).Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("failed to delete category %q: %w", category.Name, err)
		}
	}

	if err := db.Unscoped().Where("email = ?", cfg.Seed.AdminEmail).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to delete admin user: %w", err)
	}

	logrus.Info("Seeded data removed")
	return nil
}

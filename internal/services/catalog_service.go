// internal/services/catalog_service.go
package services

import (
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/models"
	"github.com/pagebound/bookstore-backend/internal/storage"
	"github.com/pagebound/bookstore-backend/internal/utils"
)

// CatalogService manages products, categories and their associations.
type CatalogService struct {
	db    *gorm.DB
	media *storage.Service
}

func NewCatalogService(db *gorm.DB, media *storage.Service) *CatalogService {
	return &CatalogService{db: db, media: media}
}

type CreateProductRequest struct {
	Title           string           `json:"title" validate:"required,max=255"`
	Author          string           `json:"author" validate:"omitempty,max=255"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	SalePrice       *decimal.Decimal `json:"sale_price"`
	Stock           int              `json:"stock" validate:"min=0"`
	Image           string           `json:"image"`
	Featured        bool             `json:"featured"`
	Publisher       string           `json:"publisher" validate:"omitempty,max=255"`
	PublicationYear int              `json:"publication_year"`
	Language        string           `json:"language" validate:"omitempty,max=50"`
	Pages           int              `json:"pages" validate:"min=0"`
	Tags            []string         `json:"tags"`
}

type UpdateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Author      *string          `json:"author" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	ClearSale   bool             `json:"clear_sale"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	Image       *string          `json:"image"`
	Featured    *bool            `json:"featured"`
	Tags        []string         `json:"tags"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func (s *CatalogService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid product", err)
	}
	if !req.Price.IsPositive() {
		return nil, apperrors.New(apperrors.ErrValidation, "price must be positive")
	}
	if req.SalePrice != nil && !req.SalePrice.IsPositive() {
		return nil, apperrors.New(apperrors.ErrValidation, "sale price must be positive")
	}

	product := &models.Product{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		Price:           req.Price.Round(2),
		Stock:           req.Stock,
		Image:           req.Image,
		Featured:        req.Featured,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Language:        req.Language,
		Pages:           req.Pages,
		Tags:            req.Tags,
	}
	if req.SalePrice != nil {
		product.SalePrice = decimal.NullDecimal{Decimal: req.SalePrice.Round(2), Valid: true}
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.FromDB(err, "product")
	}

	return product, nil
}

func (s *CatalogService) GetProduct(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Categories").First(&product, "id = ?", productID).Error; err != nil {
		return nil, apperrors.FromDB(err, "product")
	}
	return &product, nil
}

func (s *CatalogService) UpdateProduct(productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid product update", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		return nil, apperrors.FromDB(err, "product")
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Author != nil {
		product.Author = *req.Author
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, apperrors.New(apperrors.ErrValidation, "price must be positive")
		}
		product.Price = req.Price.Round(2)
	}
	if req.ClearSale {
		product.SalePrice = decimal.NullDecimal{}
	} else if req.SalePrice != nil {
		if !req.SalePrice.IsPositive() {
			return nil, apperrors.New(apperrors.ErrValidation, "sale price must be positive")
		}
		product.SalePrice = decimal.NullDecimal{Decimal: req.SalePrice.Round(2), Valid: true}
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}

	if err := s.db.Save(&product).Error; err != nil {
		return nil, apperrors.FromDB(err, "product")
	}

	return &product, nil
}

// DeleteProduct removes a product permanently. Deletion is blocked while
// order details reference it; reviews, wishlist rows, cart items and
// category links cascade away.
func (s *CatalogService) DeleteProduct(productID uuid.UUID) error {
	var detailCount int64
	if err := s.db.Model(&models.OrderDetail{}).Where("product_id = ?", productID).Count(&detailCount).Error; err != nil {
		return apperrors.FromDB(err, "order details")
	}
	if detailCount > 0 {
		return apperrors.Newf(apperrors.ErrForeignKey, "cannot delete product referenced by %d order lines", detailCount)
	}

	result := s.db.Unscoped().Delete(&models.Product{}, "id = ?", productID)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "product")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "product not found")
	}
	return nil
}

func (s *CatalogService) ListProducts(params utils.PaginationParams) ([]models.Product, int64, error) {
	params = utils.NormalizePagination(params)

	query := s.db.Model(&models.Product{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "products")
	}

	query = utils.ApplySort(query, params, []string{"created_at", "title", "price", "sales_count"})
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "products")
	}

	return products, total, nil
}

func (s *CatalogService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid category", err)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.FromDB(err, "category")
	}

	return category, nil
}

func (s *CatalogService) GetCategory(categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		return nil, apperrors.FromDB(err, "category")
	}
	return &category, nil
}

func (s *CatalogService) UpdateCategory(categoryID uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "invalid category update", err)
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		return nil, apperrors.FromDB(err, "category")
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Image != nil {
		category.Image = *req.Image
	}

	if err := s.db.Save(&category).Error; err != nil {
		return nil, apperrors.FromDB(err, "category")
	}

	return &category, nil
}

func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.FromDB(err, "categories")
	}
	return categories, nil
}

func (s *CatalogService) DeleteCategory(categoryID uuid.UUID) error {
	result := s.db.Unscoped().Delete(&models.Category{}, "id = ?", categoryID)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "category")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "category not found")
	}
	return nil
}

// AddProductCategory creates a single association without touching the rest
// of the product's category set.
func (s *CatalogService) AddProductCategory(productID, categoryID uuid.UUID) error {
	link := &models.ProductCategory{ProductID: productID, CategoryID: categoryID}
	if err := s.db.Create(link).Error; err != nil {
		return apperrors.FromDB(err, "product category link")
	}
	return nil
}

// RemoveProductCategory deletes a single association.
func (s *CatalogService) RemoveProductCategory(productID, categoryID uuid.UUID) error {
	result := s.db.Where("product_id = ? AND category_id = ?", productID, categoryID).
		Delete(&models.ProductCategory{})
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "product category link")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "product category link not found")
	}
	return nil
}

func (s *CatalogService) ListProductCategories(productID uuid.UUID) ([]models.Category, error) {
	product := models.Product{BaseModel: models.BaseModel{ID: productID}}

	var categories []models.Category
	if err := s.db.Model(&product).Order("name").Association("Categories").Find(&categories); err != nil {
		return nil, apperrors.FromDB(err, "product categories")
	}
	return categories, nil
}

func (s *CatalogService) ListCategoryProducts(categoryID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	params = utils.NormalizePagination(params)

	query := s.db.Model(&models.Product{}).
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Where("pc.category_id = ?", categoryID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "category products")
	}

	query = utils.ApplySort(query, params, []string{"created_at", "title", "price"})
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "category products")
	}

	return products, total, nil
}

// UploadProductImage stores the image and records its URL on the product.
func (s *CatalogService) UploadProductImage(productID uuid.UUID, filename string, r io.Reader, contentType string) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		return nil, apperrors.FromDB(err, "product")
	}

	result, err := s.media.Upload(filename, r, contentType, storage.ImageOptions("products"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "image upload rejected", err)
	}

	product.Image = result.URL
	if err := s.db.Save(&product).Error; err != nil {
		return nil, apperrors.FromDB(err, "product")
	}

	return &product, nil
}

// UploadCategoryImage stores the image and records its URL on the category.
func (s *CatalogService) UploadCategoryImage(categoryID uuid.UUID, filename string, r io.Reader, contentType string) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		return nil, apperrors.FromDB(err, "category")
	}

	result, err := s.media.Upload(filename, r, contentType, storage.ImageOptions("categories"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "image upload rejected", err)
	}

	category.Image = result.URL
	if err := s.db.Save(&category).Error; err != nil {
		return nil, apperrors.FromDB(err, "category")
	}

	return &category, nil
}

// internal/services/catalog_service_test.go
package services

import (
	"github.com/shopspring/decimal"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/models"
)

func (s *ServiceSuite) TestCategoryNameUnique() {
	s.mustCreateCategory("Fiction")

	_, err := s.catalog.CreateCategory(&CreateCategoryRequest{Name: "Fiction"})
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrConflict))
}

func (s *ServiceSuite) TestProductCategoryAssociation() {
	category := s.mustCreateCategory("Fiction")
	product := s.mustCreateProduct("Dune", "19.99", 10)

	s.Require().NoError(s.catalog.AddProductCategory(product.ID, category.ID))

	categories, err := s.catalog.ListProductCategories(product.ID)
	s.Require().NoError(err)
	s.Require().Len(categories, 1)
	s.Equal("Fiction", categories[0].Name)

	products, total, err := s.catalog.ListCategoryProducts(category.ID, paginationDefaults())
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(products, 1)
	s.Equal("Dune", products[0].Title)

	s.Require().NoError(s.catalog.RemoveProductCategory(product.ID, category.ID))

	categories, err = s.catalog.ListProductCategories(product.ID)
	s.Require().NoError(err)
	s.Empty(categories)
}

func (s *ServiceSuite) TestDuplicateAssociationConflict() {
	category := s.mustCreateCategory("Science")
	product := s.mustCreateProduct("Cosmos", "17.00", 3)

	s.Require().NoError(s.catalog.AddProductCategory(product.ID, category.ID))

	err := s.catalog.AddProductCategory(product.ID, category.ID)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrConflict))
}

func (s *ServiceSuite) TestRemoveMissingAssociation() {
	category := s.mustCreateCategory("History")
	product := s.mustCreateProduct("SPQR", "21.50", 3)

	err := s.catalog.RemoveProductCategory(product.ID, category.ID)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *ServiceSuite) TestPriceRoundTripsExactly() {
	product := s.mustCreateProduct("Exact", "19.99", 1)

	fetched, err := s.catalog.GetProduct(product.ID)
	s.Require().NoError(err)
	s.True(fetched.Price.Equal(decimal.RequireFromString("19.99")))
	s.Equal("19.99", fetched.Price.StringFixed(2))
}

func (s *ServiceSuite) TestSalePriceLifecycle() {
	product := s.mustCreateProduct("Discounted", "30.00", 5)

	sale := decimal.RequireFromString("24.99")
	updated, err := s.catalog.UpdateProduct(product.ID, &UpdateProductRequest{SalePrice: &sale})
	s.Require().NoError(err)
	s.True(updated.SalePrice.Valid)
	s.Equal("24.99", updated.SalePrice.Decimal.StringFixed(2))

	updated, err = s.catalog.UpdateProduct(product.ID, &UpdateProductRequest{ClearSale: true})
	s.Require().NoError(err)
	s.False(updated.SalePrice.Valid)
}

func (s *ServiceSuite) TestCreateProductRejectsNonPositivePrice() {
	_, err := s.catalog.CreateProduct(&CreateProductRequest{
		Title: "Free Book",
		Price: decimal.Zero,
	})
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrValidation))
}

func (s *ServiceSuite) TestDeleteProductRestrictedByOrderLines() {
	user := s.mustCreateUser("reader@example.com")
	product := s.mustCreateProduct("Ordered", "9.99", 10)

	_, err := s.carts.AddItem(user.ID, product.ID, 1)
	s.Require().NoError(err)
	_, err = s.orders.PlaceOrder(user.ID, nil)
	s.Require().NoError(err)

	err = s.catalog.DeleteProduct(product.ID)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrForeignKey))
}

func (s *ServiceSuite) TestDeleteProductCascadesDependents() {
	user := s.mustCreateUser("fan@example.com")
	category := s.mustCreateCategory("Fantasy")
	product := s.mustCreateProduct("Doomed", "9.99", 10)

	s.Require().NoError(s.catalog.AddProductCategory(product.ID, category.ID))
	_, err := s.reviews.Create(&CreateReviewRequest{
		UserID: user.ID, ProductID: product.ID, Rating: 5,
	})
	s.Require().NoError(err)
	_, err = s.wishlists.Add(user.ID, product.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.catalog.DeleteProduct(product.ID))

	var reviewCount, wishlistCount, linkCount int64
	s.db.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&reviewCount)
	s.db.Model(&models.Wishlist{}).Where("product_id = ?", product.ID).Count(&wishlistCount)
	s.db.Model(&models.ProductCategory{}).Where("product_id = ?", product.ID).Count(&linkCount)
	s.Zero(reviewCount)
	s.Zero(wishlistCount)
	s.Zero(linkCount)
}

// internal/services/cart_order_service_test.go
package services

import (
	"github.com/shopspring/decimal"

	"github.com/pagebound/bookstore-backend/internal/apperrors"
	"github.com/pagebound/bookstore-backend/internal/models"
)

func (s *ServiceSuite) TestOneCartPerUser() {
	user := s.mustCreateUser("shopper@example.com")

	first, err := s.carts.GetOrCreateCart(user.ID)
	s.Require().NoError(err)

	second, err := s.carts.GetOrCreateCart(user.ID)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)

	var count int64
	s.db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count)
	s.Equal(int64(1), count)
}

func (s *ServiceSuite) TestAddItemIncrementsExistingLine() {
	user := s.mustCreateUser("adder@example.com")
	product := s.mustCreateProduct("Stacked", "5.00", 20)

	item, err := s.carts.AddItem(user.ID, product.ID, 2)
	s.Require().NoError(err)
	s.Equal(2, item.Quantity)

	item, err = s.carts.AddItem(user.ID, product.ID, 3)
	s.Require().NoError(err)
	s.Equal(5, item.Quantity)

	cart, err := s.carts.GetOrCreateCart(user.ID)
	s.Require().NoError(err)
	s.Len(cart.Items, 1)
}

func (s *ServiceSuite) TestCartQuantityValidation() {
	user := s.mustCreateUser("strict@example.com")
	product := s.mustCreateProduct("Strict", "5.00", 20)

	_, err := s.carts.AddItem(user.ID, product.ID, 0)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrValidation))

	item, err := s.carts.AddItem(user.ID, product.ID, 1)
	s.Require().NoError(err)

	_, err = s.carts.UpdateItemQuantity(user.ID, item.ID, 0)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrValidation))

	updated, err := s.carts.UpdateItemQuantity(user.ID, item.ID, 7)
	s.Require().NoError(err)
	s.Equal(7, updated.Quantity)
}

func (s *ServiceSuite) TestPlaceOrderSnapshotsCart() {
	user := s.mustCreateUser("checkout@example.com")
	regular := s.mustCreateProduct("Regular", "10.00", 8)

	sale := decimal.RequireFromString("7.50")
	discounted := s.mustCreateProduct("On Sale", "12.00", 4)
	_, err := s.catalog.UpdateProduct(discounted.ID, &UpdateProductRequest{SalePrice: &sale})
	s.Require().NoError(err)

	_, err = s.carts.AddItem(user.ID, regular.ID, 2)
	s.Require().NoError(err)
	_, err = s.carts.AddItem(user.ID, discounted.ID, 1)
	s.Require().NoError(err)

	phone := "+1-555-0199"
	order, err := s.orders.PlaceOrder(user.ID, &phone)
	s.Require().NoError(err)

	s.Equal(models.OrderStatusPending, order.Status)
	s.Require().Len(order.Details, 2)
	s.Equal("27.50", order.TotalAmount.StringFixed(2)) // 2x10.00 + 1x7.50

	byProduct := map[string]models.OrderDetail{}
	for _, d := range order.Details {
		byProduct[d.ProductID.String()] = d
	}
	s.Equal("10.00", byProduct[regular.ID.String()].UnitPrice.StringFixed(2))
	s.Equal("7.50", byProduct[discounted.ID.String()].UnitPrice.StringFixed(2))

	// Stock and sales counters move; the cart empties.
	fetched, err := s.catalog.GetProduct(regular.ID)
	s.Require().NoError(err)
	s.Equal(6, fetched.Stock)
	s.Equal(int64(2), fetched.SalesCount)

	cart, err := s.carts.GetOrCreateCart(user.ID)
	s.Require().NoError(err)
	s.Empty(cart.Items)
}

func (s *ServiceSuite) TestProductCanReturnToCartAfterRemoval() {
	user := s.mustCreateUser("returning@example.com")
	product := s.mustCreateProduct("Recurring", "5.00", 20)

	item, err := s.carts.AddItem(user.ID, product.ID, 1)
	s.Require().NoError(err)
	s.Require().NoError(s.carts.RemoveItem(user.ID, item.ID))

	// The removed line must not keep holding the (cart, product) slot.
	again, err := s.carts.AddItem(user.ID, product.ID, 2)
	s.Require().NoError(err)
	s.Equal(2, again.Quantity)

	s.Require().NoError(s.carts.Clear(user.ID))

	again, err = s.carts.AddItem(user.ID, product.ID, 3)
	s.Require().NoError(err)
	s.Equal(3, again.Quantity)
}

func (s *ServiceSuite) TestProductCanReturnToCartAfterCheckout() {
	user := s.mustCreateUser("repeat@example.com")
	product := s.mustCreateProduct("Reorder", "10.00", 10)

	_, err := s.carts.AddItem(user.ID, product.ID, 1)
	s.Require().NoError(err)
	_, err = s.orders.PlaceOrder(user.ID, nil)
	s.Require().NoError(err)

	item, err := s.carts.AddItem(user.ID, product.ID, 1)
	s.Require().NoError(err)
	s.Equal(1, item.Quantity)
}

func (s *ServiceSuite) TestPlaceOrderEmptyCart() {
	user := s.mustCreateUser("empty@example.com")

	_, err := s.carts.GetOrCreateCart(user.ID)
	s.Require().NoError(err)

	_, err = s.orders.PlaceOrder(user.ID, nil)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrValidation))
}

func (s *ServiceSuite) TestPlaceOrderInsufficientStock() {
	user := s.mustCreateUser("greedy@example.com")
	product := s.mustCreateProduct("Scarce", "10.00", 1)

	_, err := s.carts.AddItem(user.ID, product.ID, 2)
	s.Require().NoError(err)

	_, err = s.orders.PlaceOrder(user.ID, nil)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrValidation))

	// Nothing committed: stock intact, no order rows.
	fetched, err := s.catalog.GetProduct(product.ID)
	s.Require().NoError(err)
	s.Equal(1, fetched.Stock)

	var orderCount int64
	s.db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount)
	s.Zero(orderCount)
}

func (s *ServiceSuite) TestOrderStatusMembership() {
	user := s.mustCreateUser("status@example.com")
	product := s.mustCreateProduct("Tracked", "10.00", 5)

	_, err := s.carts.AddItem(user.ID, product.ID, 1)
	s.Require().NoError(err)
	order, err := s.orders.PlaceOrder(user.ID, nil)
	s.Require().NoError(err)

	updated, err := s.orders.SetStatus(order.ID, models.OrderStatusShipped)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusShipped, updated.Status)

	_, err = s.orders.SetStatus(order.ID, models.OrderStatus("teleported"))
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrValidation))
}

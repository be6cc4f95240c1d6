package services

import (
	"database/sql"
	"errors"

	"tradewind/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type CartView struct {
	UserID string              `json:"userId"`
	Items  []repos.CartItemRow `json:"items"`
	Total  float64             `json:"total"`
}

func (s *CartService) view(userID, cartID string) (CartView, error) {
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, err
	}
	total := 0.0
	for _, it := range items {
		total += it.Subtotal
	}
	return CartView{UserID: userID, Items: items, Total: total}, nil
}

// Add puts a product in the user's cart, creating the cart on first use.
// Adding a product already present increments its line instead of
// duplicating it.
func (s *CartService) Add(userID, productID string, qty int) (CartView, error) {
	if qty < 1 {
		qty = 1
	}
	if _, err := s.Prods.Get(productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartView{}, UnknownProduct{ProductID: productID}
		}
		return CartView{}, err
	}
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.AddItem(cartID, productID, qty); err != nil {
		return CartView{}, err
	}
	return s.view(userID, cartID)
}

// Update overwrites a line's quantity; missing cart and missing line are
// distinct not-found failures.
func (s *CartService) Update(userID, productID string, qty int) (CartView, error) {
	cartID, err := s.Carts.CartID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartView{}, ErrCartNotFound
		}
		return CartView{}, err
	}
	n, err := s.Carts.SetQuantity(cartID, productID, qty)
	if err != nil {
		return CartView{}, err
	}
	if n == 0 {
		return CartView{}, ErrCartItemNotFound
	}
	return s.view(userID, cartID)
}

// Remove drops a line by product identity. Removing a line that is not in
// the cart is a no-op returning the unchanged cart.
func (s *CartService) Remove(userID, productID string) (CartView, error) {
	cartID, err := s.Carts.CartID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartView{}, ErrCartNotFound
		}
		return CartView{}, err
	}
	if err := s.Carts.RemoveItem(cartID, productID); err != nil {
		return CartView{}, err
	}
	return s.view(userID, cartID)
}

// View returns the cart with lines expanded to product details. A missing
// or empty cart is reported as ErrCartEmpty: the API contract signals
// "Cart is empty" with a 404 rather than returning an empty list.
func (s *CartService) View(userID string) (CartView, error) {
	cartID, err := s.Carts.CartID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartView{}, ErrCartEmpty
		}
		return CartView{}, err
	}
	cv, err := s.view(userID, cartID)
	if err != nil {
		return CartView{}, err
	}
	if len(cv.Items) == 0 {
		return CartView{}, ErrCartEmpty
	}
	return cv, nil
}

// Fetch returns the named user's cart even when it has no lines; only a
// missing cart is an error. Used by the per-user cart read.
func (s *CartService) Fetch(userID string) (CartView, error) {
	cartID, err := s.Carts.CartID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartView{}, ErrCartNotFound
		}
		return CartView{}, err
	}
	return s.view(userID, cartID)
}

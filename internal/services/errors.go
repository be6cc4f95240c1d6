package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the handler layer to map onto HTTP statuses.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrBadCredentials   = errors.New("invalid credentials")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrEmptyOrder       = errors.New("order has no items")
)

// UnknownProduct names the product that failed to resolve during order
// validation or a cart add.
type UnknownProduct struct{ ProductID string }

func (e UnknownProduct) Error() string {
	return fmt.Sprintf("product with ID %s not found", e.ProductID)
}

// OutOfStock names the product whose requested quantity exceeds current
// stock.
type OutOfStock struct{ ProductID, Name string }

func (e OutOfStock) Error() string {
	name := e.Name
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("not enough stock for product %s", name)
}

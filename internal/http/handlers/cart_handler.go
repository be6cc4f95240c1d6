package handlers

import (
	"errors"

	"tradewind/internal/services"
	"tradewind/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCartNotFound):
		return fail(c, fiber.StatusNotFound, "Cart not found")
	case errors.Is(err, services.ErrCartItemNotFound):
		return fail(c, fiber.StatusNotFound, "Item not found in cart")
	case errors.Is(err, services.ErrCartEmpty):
		return fail(c, fiber.StatusNotFound, "Cart is empty")
	}
	var unknown services.UnknownProduct
	if errors.As(err, &unknown) {
		return fail(c, fiber.StatusNotFound, "Product not found")
	}
	return oops(c, err)
}

// Add puts a product in the caller's cart; the cart is created lazily and
// repeated adds of the same product merge into one line.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if _, ok := validate.ID(req.ProductID); !ok || !validate.Qty(req.Quantity) {
		return fail(c, fiber.StatusBadRequest, "productId and a quantity of at least 1 are required.")
	}
	cv, err := h.Cart.Add(callerID(c), req.ProductID, req.Quantity)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(cv)
}

// Update overwrites a line's quantity.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if _, ok := validate.ID(req.ProductID); !ok || !validate.Qty(req.Quantity) {
		return fail(c, fiber.StatusBadRequest, "productId and a quantity of at least 1 are required.")
	}
	cv, err := h.Cart.Update(callerID(c), req.ProductID, req.Quantity)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(cv)
}

// Remove drops a line; removing a product that is not in the cart returns
// the unchanged cart.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if _, ok := validate.ID(req.ProductID); !ok {
		return fail(c, fiber.StatusBadRequest, "productId is required.")
	}
	cv, err := h.Cart.Remove(callerID(c), req.ProductID)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(cv)
}

// View returns the caller's cart with product details expanded. An empty
// cart answers 404 "Cart is empty" (the contract the frontend depends on).
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(callerID(c))
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(cv)
}

// ViewFor returns the named user's cart. Owner or admin only.
func (h *CartHandler) ViewFor(c *fiber.Ctx) error {
	userID, ok := validate.ID(c.Params("userId"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid user id.")
	}
	if userID != callerID(c) && !callerIsAdmin(c) {
		return fail(c, fiber.StatusForbidden, "Not allowed to view this cart")
	}
	cv, err := h.Cart.Fetch(userID)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(cv)
}

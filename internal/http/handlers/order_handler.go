package handlers

import (
	"errors"

	"tradewind/internal/domain"
	applog "tradewind/internal/log"
	"tradewind/internal/services"
	"tradewind/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
}

func (h *OrderHandler) orderError(c *fiber.Ctx, err error) error {
	var unknown services.UnknownProduct
	if errors.As(err, &unknown) {
		return fail(c, fiber.StatusNotFound, unknown.Error()+".")
	}
	var short services.OutOfStock
	if errors.As(err, &short) {
		return fail(c, fiber.StatusBadRequest, short.Error()+".")
	}
	if errors.Is(err, services.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "Order not found.")
	}
	return oops(c, err)
}

// Place runs the order workflow for the caller's submitted lines. Any
// single-line failure aborts the whole order; nothing partial is created.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req struct {
		CartItems       []services.LineInput `json:"cartItems"`
		ShippingAddress string               `json:"shippingAddress"`
		PaymentMethod   string               `json:"paymentMethod"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if len(req.CartItems) == 0 {
		return fail(c, fiber.StatusBadRequest, "Products are required.")
	}
	for _, it := range req.CartItems {
		if _, ok := validate.ID(it.ProductID); !ok || !validate.Qty(it.Quantity) {
			return fail(c, fiber.StatusBadRequest, "Each item needs a productId and a quantity of at least 1.")
		}
	}
	if req.ShippingAddress == "" || req.PaymentMethod == "" {
		return fail(c, fiber.StatusBadRequest, "Shipping address and payment method are required.")
	}

	ov, err := h.Order.Place(c.Context(), callerID(c), callerEmail(c),
		req.CartItems, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, services.ErrEmptyOrder) {
			return fail(c, fiber.StatusBadRequest, "Products are required.")
		}
		return h.orderError(c, err)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": ov.ID, "total": ov.Total})
	return c.Status(fiber.StatusCreated).JSON(ov)
}

// UpdateStatus overwrites an order's status (admin).
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid order id.")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if !domain.ValidStatus(req.Status) {
		return fail(c, fiber.StatusBadRequest, "Status must be Pending, Completed or Cancelled.")
	}

	ov, err := h.Order.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return h.orderError(c, err)
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": id, "status": req.Status})
	return c.JSON(ov)
}

// History returns the caller's orders with product details expanded. No
// orders answers 404 "No orders found." (preserved contract).
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.History(callerID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "No orders found.")
		}
		return oops(c, err)
	}
	return c.JSON(orders)
}

// Confirm re-sends the confirmation mail for an order. No state changes:
// this endpoint is a resend hook, not a status transition.
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if _, ok := validate.ID(req.OrderID); !ok {
		return fail(c, fiber.StatusBadRequest, "orderId is required.")
	}
	if _, err := h.Order.Confirm(c.Context(), req.OrderID, callerEmail(c)); err != nil {
		return h.orderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order confirmed and email sent."})
}

// UpdateShipping amends the shipping address. A notification failure turns
// into a success-with-warning response; the update itself stands.
func (h *OrderHandler) UpdateShipping(c *fiber.Ctx) error {
	var req struct {
		OrderID         string `json:"orderId"`
		ShippingAddress string `json:"shippingAddress"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if req.OrderID == "" || req.ShippingAddress == "" {
		return fail(c, fiber.StatusBadRequest, "Order ID and shipping address are required.")
	}

	ov, mailWarn, err := h.Order.UpdateShipping(c.Context(), req.OrderID, req.ShippingAddress, callerEmail(c))
	if err != nil {
		return h.orderError(c, err)
	}
	msg := "Shipping address updated successfully."
	if mailWarn {
		msg = "Shipping address updated, but there was an issue sending the email."
	}
	return c.JSON(fiber.Map{"message": msg, "updatedOrder": ov})
}

// All lists every order (admin).
func (h *OrderHandler) All(c *fiber.Ctx) error {
	orders, err := h.Order.All()
	if err != nil {
		return oops(c, err)
	}
	return c.JSON(orders)
}

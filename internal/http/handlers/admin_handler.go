package handlers

import (
	"errors"

	applog "tradewind/internal/log"
	"tradewind/internal/services"
	"tradewind/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Users *services.UserService
}

// ListUsers returns every account except the caller's own (admin).
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List(callerID(c))
	if err != nil {
		return oops(c, err)
	}
	return c.JSON(users)
}

// DeleteUser hard-deletes an account (admin). Orders survive the delete;
// the cart does not.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid user id.")
	}
	if err := h.Users.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		return oops(c, err)
	}
	applog.Audit(c, "user.delete", map[string]any{"target_id": id})
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// UpdateUser rewrites an account's name, email and phone. A user may edit
// their own profile; admins may edit anyone's.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid user id.")
	}
	if id != callerID(c) && !callerIsAdmin(c) {
		return fail(c, fiber.StatusForbidden, "Not allowed to edit this profile")
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	name, okName := validate.Name(req.Name)
	email, okEmail := validate.Email(req.Email)
	phone, okPhone := validate.Phone(req.Phone)
	if !okName || !okEmail || !okPhone {
		return fail(c, fiber.StatusBadRequest, "Valid name, email and phone are required.")
	}

	u, err := h.Users.UpdateProfile(id, name, email, phone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrConflict):
			return fail(c, fiber.StatusConflict, "Email already in use.")
		}
		return oops(c, err)
	}
	applog.Audit(c, "user.update", map[string]any{"target_id": id})
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": u})
}

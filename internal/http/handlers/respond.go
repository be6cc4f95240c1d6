package handlers

import "github.com/gofiber/fiber/v2"

// fail answers a business-rule failure with the human-readable message the
// API contract promises.
func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// oops answers an unexpected failure (storage faults and the like).
func oops(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

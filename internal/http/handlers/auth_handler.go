package handlers

import (
	"errors"

	"tradewind/internal/domain"
	applog "tradewind/internal/log"
	"tradewind/internal/media"
	"tradewind/internal/services"
	"tradewind/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth  *services.AuthService
	Media media.Uploader
}

// Register creates a user from a multipart form: the profile fields plus a
// required profileImage file, which is forwarded to the image store and
// persisted as a URL only.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	name, okName := validate.Name(c.FormValue("name"))
	email, okEmail := validate.Email(c.FormValue("email"))
	password := c.FormValue("password")
	address := c.FormValue("address")
	phone, okPhone := validate.Phone(c.FormValue("phone"))
	role := c.FormValue("role")

	if name == "" || email == "" || password == "" || address == "" || phone == "" || role == "" {
		return fail(c, fiber.StatusBadRequest, "All fields are required.")
	}
	if !okName || !okEmail || !okPhone {
		return fail(c, fiber.StatusBadRequest, "Invalid name, email or phone.")
	}
	if !validate.Password(password) {
		return fail(c, fiber.StatusBadRequest, "Password must be between 8 and 72 characters.")
	}
	if role != domain.RoleCustomer && role != domain.RoleAdmin {
		return fail(c, fiber.StatusBadRequest, "Role must be customer or admin.")
	}

	fh, err := c.FormFile("profileImage")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Profile image is required.")
	}
	src, err := fh.Open()
	if err != nil {
		return oops(c, err)
	}
	defer src.Close()

	imageURL, err := h.Media.Upload(c.Context(), src, fh.Filename)
	if err != nil {
		applog.Error(c, "media.upload.fail", err, map[string]any{"filename": fh.Filename})
		return oops(c, err)
	}

	u, err := h.Auth.Register(services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Address:  address,
		Phone:    phone,
		Role:     role,
		ImageURL: imageURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return fail(c, fiber.StatusConflict, "User already exists.")
		}
		return oops(c, err)
	}

	applog.Audit(c, "auth.register", map[string]any{"email": email, "role": role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    u,
	})
}

// Login verifies credentials and issues the bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if _, ok := validate.Email(req.Email); !ok || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Email and password are required.")
	}

	u, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrBadCredentials):
			applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
			return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
		default:
			return oops(c, err)
		}
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": req.Email})
	return c.JSON(fiber.Map{
		"token":   token,
		"user":    u,
		"message": "Login successful",
	})
}

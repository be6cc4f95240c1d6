package handlers

import (
	"errors"
	"strconv"

	applog "tradewind/internal/log"
	"tradewind/internal/media"
	"tradewind/internal/repos"
	"tradewind/internal/services"
	"tradewind/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Media   media.Uploader
}

func (h *ProductHandler) parseInput(c *fiber.Ctx) (services.ProductInput, string, bool) {
	name, okName := validate.Name(c.FormValue("name"))
	if !okName {
		return services.ProductInput{}, "Product name is required.", false
	}
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price < 0 {
		return services.ProductInput{}, "Price must be a non-negative number.", false
	}
	stock := 0
	if v := c.FormValue("stock"); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil || stock < 0 {
			return services.ProductInput{}, "Stock must be a non-negative integer.", false
		}
	}
	return services.ProductInput{
		Name:        name,
		Description: c.FormValue("description"),
		Price:       price,
		Category:    c.FormValue("category"),
		Stock:       stock,
	}, "", true
}

var errImageRequired = errors.New("Image file is required.")

// upload stores an optional multipart image and returns its URL; required
// toggles whether a missing file is an error.
func (h *ProductHandler) upload(c *fiber.Ctx, required bool) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if required {
			return "", errImageRequired
		}
		return "", nil
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.Media.Upload(c.Context(), src, fh.Filename)
}

// Create adds a catalog entry (admin). The image is mandatory at creation.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, msg, ok := h.parseInput(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, msg)
	}
	imageURL, err := h.upload(c, true)
	if err != nil {
		if errors.Is(err, errImageRequired) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		applog.Error(c, "media.upload.fail", err, nil)
		return oops(c, err)
	}
	in.ImageURL = imageURL

	p, err := h.Catalog.Create(c.Context(), in)
	if err != nil {
		return oops(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": p})
}

// List serves the filtered, paginated catalog. Page size is fixed at 10;
// the response carries the current page and total page count.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	minPrice, okMin := validate.Price(c.Query("minPrice"))
	maxPrice, okMax := validate.Price(c.Query("maxPrice"))
	if !okMin || !okMax {
		return fail(c, fiber.StatusBadRequest, "Price bounds must be non-negative numbers.")
	}
	f := repos.Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	page, err := h.Catalog.List(c.Context(), f, validate.Page(c.Query("page")))
	if err != nil {
		return oops(c, err)
	}
	return c.JSON(page)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid product id.")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found")
		}
		return oops(c, err)
	}
	return c.JSON(p)
}

// Update overwrites a catalog entry (admin). A new image is optional; the
// availability flag is recomputed from the submitted stock in the same
// write.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid product id.")
	}
	in, msg, okIn := h.parseInput(c)
	if !okIn {
		return fail(c, fiber.StatusBadRequest, msg)
	}
	imageURL, err := h.upload(c, false)
	if err != nil {
		applog.Error(c, "media.upload.fail", err, nil)
		return oops(c, err)
	}
	in.ImageURL = imageURL

	p, err := h.Catalog.Update(c.Context(), id, in)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found")
		}
		return oops(c, err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid product id.")
	}
	if err := h.Catalog.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found")
		}
		return oops(c, err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

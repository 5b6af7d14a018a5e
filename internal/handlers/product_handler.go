package handlers

import (
	"feira/internal/middleware"
	"feira/internal/models"
	"feira/internal/services"
	"feira/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Only show is public.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", auth, h.HandleListProducts)
	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Get("/:id/edit", auth, h.HandleEditProduct)
	productRoutes.Get("/:id", h.HandleShowProduct)
	productRoutes.Post("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)
}

// productView adds the public image URL to a product.
type productView struct {
	models.Product
	ImageURL string `json:"image_url,omitempty"`
}

func viewOf(p *models.Product) productView {
	return productView{Product: *p, ImageURL: storage.PublicPath(storage.ProductImages, p.Image)}
}

// HandleListProducts lists the current user's products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, viewOf(&products[i]))
	}
	return c.JSON(views)
}

// HandleCreateProduct creates a product owned by the current user.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	input.Image = uploadedImage(c)

	product, err := h.service.CreateProduct(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return redirectTo(c, fiber.StatusCreated, "Produto adicionado com sucesso!", "/products", fiber.Map{
		"product": viewOf(product),
	})
}

// HandleShowProduct retrieves any product by ID.
func (h *ProductHandler) HandleShowProduct(c *fiber.Ctx) error {
	product, err := h.service.ShowProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(product))
}

// HandleEditProduct returns the product with the category choices for its
// edit form.
func (h *ProductHandler) HandleEditProduct(c *fiber.Ctx) error {
	product, err := h.service.EditProduct(c.UserContext(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"product":    viewOf(product),
		"categories": models.Categories,
	})
}

// HandleUpdateProduct updates a product owned by the current user.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	input.Image = uploadedImage(c)

	product, err := h.service.UpdateProduct(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), input)
	if err != nil {
		return respondError(c, err)
	}
	return redirectTo(c, fiber.StatusOK, "Produto atualizado com sucesso!", "/products", fiber.Map{
		"product": viewOf(product),
	})
}

// HandleDeleteProduct deletes a product owned by the current user.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return redirectTo(c, fiber.StatusOK, "Produto deletado com sucesso!", "/products", nil)
}

package handlers

import (
	"feira/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HomeHandler serves the public landing page and the product search.
type HomeHandler struct {
	catalog *services.CatalogService
}

func NewHomeHandler(catalog *services.CatalogService) *HomeHandler {
	return &HomeHandler{catalog: catalog}
}

func (h *HomeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/home", h.HandleHome)
	router.Get("/search", h.HandleSearch)
}

func (h *HomeHandler) HandleHome(c *fiber.Ctx) error {
	view, err := h.catalog.Home(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// HandleSearch lists products of every user whose name contains ?termo=.
func (h *HomeHandler) HandleSearch(c *fiber.Ctx) error {
	var input services.SearchInput
	if err := c.QueryParser(&input); err != nil {
		return badRequest(c, err)
	}

	view, err := h.catalog.Search(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

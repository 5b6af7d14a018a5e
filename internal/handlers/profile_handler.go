package handlers

import (
	"fmt"

	"feira/internal/middleware"
	"feira/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	profiles *services.ProfileService
	accounts *services.AccountService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *services.ProfileService, accounts *services.AccountService) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		accounts: accounts,
	}
}

// RegisterRoutes registers the profile routes behind auth.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/profile", auth, h.HandleView)
	router.Post("/profile", auth, h.HandleUpdate)
	router.Delete("/profile", auth, h.HandleDeleteAccount)
}

// HandleView returns the user with their products.
func (h *ProfileHandler) HandleView(c *fiber.Ctx) error {
	view, err := h.profiles.ViewProfile(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// HandleUpdate changes the display name and optionally the avatar.
func (h *ProfileHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	input.Image = uploadedImage(c)

	user, err := h.profiles.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return redirectTo(c, fiber.StatusOK, "Perfil atualizado com sucesso!", "/profile", fiber.Map{
		"user": user,
	})
}

// HandleDeleteAccount removes the account with everything it owns and ends
// the session.
func (h *ProfileHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	name, err := h.accounts.DeleteAccount(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	clearSessionCookie(c)
	return redirectTo(c, fiber.StatusOK, fmt.Sprintf("Conta de %s deletada com sucesso.", name), "/", nil)
}

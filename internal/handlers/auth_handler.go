package handlers

import (
	"log"
	"time"

	"feira/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and sessions.
type AuthHandler struct {
	authService *services.AuthService
	tokenTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokenTTL:    tokenTTL,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
}

// HandleRegister handles new user registration from a multipart form.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	input.Image = uploadedImage(c)

	user, err := h.authService.RegisterUser(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return respondError(c, err)
	}
	setSessionCookie(c, token, h.tokenTTL)

	log.Printf("Registered user %s", user.ID)
	return redirectTo(c, fiber.StatusCreated, "Cadastro realizado com sucesso!", "/home", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// HandleLogin handles user login and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	setSessionCookie(c, token, h.tokenTTL)

	return redirectTo(c, fiber.StatusOK, "Login realizado com sucesso!", "/home", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogout ends the session by clearing the cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	clearSessionCookie(c)
	return redirectTo(c, fiber.StatusOK, "Sessão encerrada.", "/", nil)
}

package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"time"

	"feira/internal/apperror"
	"feira/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto an HTTP status and JSON body.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperror.AppError
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperror.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	body := fiber.Map{"message": err.Error()}
	if errors.As(err, &appErr) {
		body["message"] = appErr.Message
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
	}
	return c.Status(status).JSON(body)
}

// redirectTo answers a write path with a flash message and the route the
// client should go to next.
func redirectTo(c *fiber.Ctx, status int, message, target string, extra fiber.Map) error {
	body := fiber.Map{
		"message":  message,
		"redirect": target,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// uploadedImage returns the "image" part of a multipart request, or nil when
// the request carries none.
func uploadedImage(c *fiber.Ctx) *multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	files := form.File["image"]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}

func setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

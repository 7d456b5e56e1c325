package handlers

import (
	"nfc-event-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	// 🔓 The only route that does not require a token
	app.Post("/login", authService.LoginEndpoint)
}

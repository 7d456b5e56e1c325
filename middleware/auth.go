package middleware

import (
	"log"
	"strings"

	"nfc-event-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TokenAuthMiddleware validates the bearer token issued at /login and
// attaches the staff user to the request context. Every route except
// /login sits behind it.
func TokenAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "authentication token missing",
			})
		}

		// Accept "Bearer <token>" and the legacy "Token <token>" the
		// scanner app sends.
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			token = strings.TrimPrefix(authHeader, "Token ")
		}

		var auth models.AuthToken
		if err := db.Preload("StaffUser").Where("token = ?", token).First(&auth).Error; err != nil {
			log.Printf("🚫 [AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid authentication token",
			})
		}

		c.Locals("staff_user", &auth.StaffUser)
		c.Locals("staff_username", auth.StaffUser.Username)
		return c.Next()
	}
}

package handlers

import (
	"nfc-event-system/middleware"
	"nfc-event-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPreregRoutes(app *fiber.App, registrationService *services.RegistrationService, db *gorm.DB) {
	secured := app.Group("/prereg", middleware.TokenAuthMiddleware(db))

	secured.Post("/register", registrationService.RegisterTagEndpoint)
	secured.Get("/teams", registrationService.ListPreregTeamsEndpoint)
	secured.Post("/teams/create", registrationService.CreateTeamEndpoint)
	secured.Post("/teams/:team_id/add-member", registrationService.AddPreregMemberEndpoint)
}

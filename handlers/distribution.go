package handlers

import (
	"nfc-event-system/middleware"
	"nfc-event-system/models"
	"nfc-event-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDistributionRoutes(app *fiber.App, distributionService *services.DistributionService, db *gorm.DB) {
	secured := app.Group("/", middleware.TokenAuthMiddleware(db))

	// One give endpoint per item, all driven off the item table
	for _, item := range models.Items {
		secured.Post("/give-"+item.Route+"/", distributionService.GiveItem(item.Key))
	}

	secured.Post("/distribute-team", distributionService.DistributeTeamEndpoint)
}

package handlers

import (
	"nfc-event-system/middleware"
	"nfc-event-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReportRoutes(app *fiber.App, reportService *services.ReportService, db *gorm.DB) {
	secured := app.Group("/", middleware.TokenAuthMiddleware(db))

	secured.Post("/scan", reportService.ScanEndpoint)
	secured.Get("/stats", reportService.DashboardStatsEndpoint)
	secured.Get("/teams/stats", reportService.TeamsStatsEndpoint)
	secured.Get("/team/:team_id", reportService.TeamDetailsEndpoint)
	secured.Get("/attendees", reportService.AttendeesEndpoint)
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"nfc-event-system/handlers"
	"nfc-event-system/models"
	"nfc-event-system/services"
	"nfc-event-system/utils"
	"nfc-event-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	originsList := strings.Split(allowedOrigins, ",")
	for i, origin := range originsList {
		originsList[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(originsList, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Team{},
		&models.Participant{},
		&models.PreRegisteredMember{},
		&models.StaffUser{},
		&models.AuthToken{},
		&models.UnknownScan{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	authService := services.NewAuthService(db)
	if err := authService.EnsureSeedUsers(); err != nil {
		log.Fatal("failed to seed staff users:", err)
	}

	distributionService := services.NewDistributionService(db)
	registrationService := services.NewRegistrationService(db)
	reportService := services.NewReportService(db)

	sched, err := workers.StartMaintenance(db, reportService)
	if err != nil {
		log.Fatal("failed to start maintenance scheduler:", err)
	}

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupDistributionRoutes(app, distributionService, db)
	handlers.SetupReportRoutes(app, reportService, db)
	handlers.SetupPreregRoutes(app, registrationService, db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Maintenance scheduler running")
	if utils.R2Enabled() {
		log.Println("✅ Stats snapshot archival to R2 enabled")
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := sched.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

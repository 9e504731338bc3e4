package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"sparestock/config"
	"sparestock/controllers"
	"sparestock/controllers/idgen"
	"sparestock/database"
	"sparestock/notifier"
	"sparestock/repositories"
	"sparestock/routes"
	"sparestock/services"
)

func main() {

	config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	database.RunSeeders(db)

	idgen.Init()

	// Repositories
	requestRepo := repositories.NewRequestRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)
	stockRepo := repositories.NewEngineerStockRepository(db)
	adjustmentRepo := repositories.NewAdjustmentRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	// Services
	mailNotifier := notifier.NewMailNotifier(profileRepo, logger)
	drafts := services.NewDraftStore()
	requestService := services.NewRequestService(requestRepo, stockRepo, logger)
	deliveryService := services.NewDeliveryService(requestRepo, inventoryRepo, drafts, mailNotifier, logger)
	stockService := services.NewStockService(stockRepo, profileRepo, logger)

	// Controllers
	requestController := controllers.NewRequestController(requestService, requestRepo)
	deliveryController := controllers.NewDeliveryController(deliveryService)
	inventoryController := controllers.NewInventoryController(inventoryRepo)
	stockController := controllers.NewStockController(stockService, stockRepo, adjustmentRepo)

	app := fiber.New()

	config.SetupCORS(app)

	routes.SetupRequestRoutes(app, requestController, deliveryController)
	routes.SetupInventoryRoutes(app, inventoryController)
	routes.SetupStockRoutes(app, stockController)

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}

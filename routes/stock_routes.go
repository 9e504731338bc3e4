package routes

import (
	"github.com/gofiber/fiber/v2"

	"sparestock/config"
	"sparestock/controllers"
	"sparestock/middleware"
)

func SetupStockRoutes(app *fiber.App, stockController *controllers.StockController) {
	api := app.Group(config.MAIN_ROUTES+"/stock", middleware.AuthMiddleware)

	api.Get("/", stockController.GetMyStock)
	api.Post("/correct", stockController.CorrectStock)
	api.Put("/min-stock", stockController.SetMinStock)
	api.Get("/adjustments", stockController.GetMyAdjustments)
	api.Get("/adjustments/part/:id", middleware.AdminOnly, stockController.GetPartAdjustments)
}

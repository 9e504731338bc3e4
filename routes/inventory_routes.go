package routes

import (
	"github.com/gofiber/fiber/v2"

	"sparestock/config"
	"sparestock/controllers"
	"sparestock/middleware"
)

func SetupInventoryRoutes(app *fiber.App, inventoryController *controllers.InventoryController) {
	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)

	api.Get("/", inventoryController.GetParts)
	api.Get("/low-stock", inventoryController.GetLowStock)
	api.Get("/excel", middleware.AdminOnly, inventoryController.ExportExcel)
	api.Post("/", middleware.AdminOnly, inventoryController.CreatePart)
	api.Put("/:id/stock", middleware.AdminOnly, inventoryController.RestockPart)
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"sparestock/config"
	"sparestock/controllers"
	"sparestock/middleware"
)

func SetupRequestRoutes(app *fiber.App, requestController *controllers.RequestController, deliveryController *controllers.DeliveryController) {
	api := app.Group(config.MAIN_ROUTES+"/requests", middleware.AuthMiddleware)

	api.Post("/", requestController.SubmitRequest)
	api.Get("/", requestController.GetMyRequests)
	api.Get("/pending", middleware.AdminOnly, requestController.GetPendingRequests)
	api.Get("/:id", requestController.GetRequest)
	api.Post("/:id/approve", middleware.AdminOnly, requestController.ApproveRequest)
	api.Post("/:id/reject", middleware.AdminOnly, requestController.RejectRequest)
	api.Post("/:id/cancel", requestController.CancelRequest)
	api.Post("/:id/confirm", requestController.ConfirmRequest)

	api.Get("/:id/plan", middleware.AdminOnly, deliveryController.GetPlan)
	api.Put("/:id/draft", middleware.AdminOnly, deliveryController.SaveDraft)
	api.Delete("/:id/draft", middleware.AdminOnly, deliveryController.DiscardDraft)
	api.Post("/:id/deliver", middleware.AdminOnly, deliveryController.Deliver)
}

package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sparestock/services"
)

type DeliveryController struct {
	service *services.DeliveryService
}

func NewDeliveryController(service *services.DeliveryService) *DeliveryController {
	return &DeliveryController{service: service}
}

// GetPlan previews what would ship for an approved request with the current
// draft adjustments applied.
func (c *DeliveryController) GetPlan(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	plan, err := c.service.Plan(int64(id))
	if err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": plan})
}

type draftInput struct {
	Adjustments map[string]int `json:"adjustments"`
}

// SaveDraft stores per-part deliver quantities for a request. The draft is
// process-local and discarded if the delivery never happens.
func (c *DeliveryController) SaveDraft(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input draftInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.service.SaveDraft(int64(id), input.Adjustments)

	plan, err := c.service.Plan(int64(id))
	if err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": plan})
}

func (c *DeliveryController) DiscardDraft(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	c.service.ClearDraft(int64(id))
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Draft discarded"})
}

// Deliver commits the delivery. An adjustments body, when present, replaces
// the stored draft before the plan is built.
func (c *DeliveryController) Deliver(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if len(ctx.Body()) > 0 {
		var input draftInput
		if err := ctx.BodyParser(&input); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if input.Adjustments != nil {
			c.service.SaveDraft(int64(id), input.Adjustments)
		}
	}

	adminID := ctx.Locals("userID").(string)
	req, err := c.service.Deliver(int64(id), adminID)
	if err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Request delivered", "data": req})
}

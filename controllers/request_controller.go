package controllers

import (
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"sparestock/models"
	"sparestock/repositories"
	"sparestock/services"
)

type RequestController struct {
	service *services.RequestService
	repo    *repositories.RequestRepository
}

func NewRequestController(service *services.RequestService, repo *repositories.RequestRepository) *RequestController {
	return &RequestController{service: service, repo: repo}
}

type requestItemInput struct {
	PartID   string `json:"part_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type submitRequestInput struct {
	Month string             `json:"month" validate:"required,min=4"`
	Items []requestItemInput `json:"items" validate:"required,min=1,dive"`
}

func (c *RequestController) SubmitRequest(ctx *fiber.Ctx) error {
	var input submitRequestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	items := make([]models.RequestItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.RequestItem{PartID: item.PartID, Quantity: item.Quantity})
	}

	engineerID := ctx.Locals("userID").(string)
	req, err := c.service.Submit(engineerID, input.Month, items)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": req})
}

func (c *RequestController) GetMyRequests(ctx *fiber.Ctx) error {
	engineerID := ctx.Locals("userID").(string)
	reqs, err := c.repo.ListByEngineer(engineerID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"requests": reqs}})
}

func (c *RequestController) GetPendingRequests(ctx *fiber.Ctx) error {
	reqs, err := c.repo.ListByStatus(models.RequestStatusPending)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"requests": reqs}})
}

func (c *RequestController) GetRequest(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	req, err := c.repo.GetByID(int64(id))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if req == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": req})
}

func (c *RequestController) ApproveRequest(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	adminID := ctx.Locals("userID").(string)
	if err := c.service.Approve(int64(id), adminID); err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Request approved"})
}

type rejectRequestInput struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

func (c *RequestController) RejectRequest(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input rejectRequestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	adminID := ctx.Locals("userID").(string)
	if err := c.service.Reject(int64(id), adminID, input.Reason); err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Request rejected"})
}

func (c *RequestController) CancelRequest(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	engineerID := ctx.Locals("userID").(string)
	if err := c.service.Cancel(int64(id), engineerID); err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Request cancelled"})
}

func (c *RequestController) ConfirmRequest(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	engineerID := ctx.Locals("userID").(string)
	if err := c.service.Confirm(int64(id), engineerID); err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Receipt confirmed"})
}

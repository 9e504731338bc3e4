package controllers

import (
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"sparestock/repositories"
	"sparestock/services"
)

type StockController struct {
	service     *services.StockService
	stockRepo   *repositories.EngineerStockRepository
	adjustments *repositories.AdjustmentRepository
}

func NewStockController(service *services.StockService, stockRepo *repositories.EngineerStockRepository, adjustments *repositories.AdjustmentRepository) *StockController {
	return &StockController{service: service, stockRepo: stockRepo, adjustments: adjustments}
}

func (c *StockController) GetMyStock(ctx *fiber.Ctx) error {
	engineerID := ctx.Locals("userID").(string)
	stocks, err := c.stockRepo.ListByEngineer(engineerID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"stocks": stocks}})
}

type correctStockInput struct {
	PartID   string `json:"part_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Reason   string `json:"reason" validate:"required,min=3"`
}

func (c *StockController) CorrectStock(ctx *fiber.Ctx) error {
	var input correctStockInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	engineerID := ctx.Locals("userID").(string)
	adj, err := c.service.Correct(engineerID, input.PartID, input.Quantity, input.Reason)
	if err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Stock corrected", "data": adj})
}

type minStockInput struct {
	PartID   string `json:"part_id" validate:"required"`
	MinStock int    `json:"min_stock" validate:"gte=0"`
}

func (c *StockController) SetMinStock(ctx *fiber.Ctx) error {
	var input minStockInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	engineerID := ctx.Locals("userID").(string)
	if err := c.service.SetMinStock(engineerID, input.PartID, input.MinStock); err != nil {
		return serviceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Min stock updated"})
}

func (c *StockController) GetMyAdjustments(ctx *fiber.Ctx) error {
	engineerID := ctx.Locals("userID").(string)
	limit := ctx.QueryInt("limit", 50)

	adjustments, err := c.adjustments.ListByEngineer(engineerID, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"adjustments": adjustments}})
}

func (c *StockController) GetPartAdjustments(ctx *fiber.Ctx) error {
	partID := ctx.Params("id")
	limit := ctx.QueryInt("limit", 50)

	adjustments, err := c.adjustments.ListByPart(partID, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"adjustments": adjustments}})
}

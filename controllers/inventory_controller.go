package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"sparestock/models"
	"sparestock/repositories"
)

type InventoryController struct {
	repo *repositories.InventoryRepository
}

func NewInventoryController(repo *repositories.InventoryRepository) *InventoryController {
	return &InventoryController{repo: repo}
}

func (c *InventoryController) GetParts(ctx *fiber.Ctx) error {
	parts, err := c.repo.GetAll()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"parts": parts}})
}

func (c *InventoryController) GetLowStock(ctx *fiber.Ctx) error {
	parts, err := c.repo.GetLowStock()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"parts": parts}})
}

type createPartInput struct {
	ID         string `json:"id" validate:"required,min=3"`
	PartName   string `json:"part_name" validate:"required,min=3"`
	TotalStock int    `json:"total_stock" validate:"gte=0"`
	MinStock   int    `json:"min_stock" validate:"gte=0"`
}

func (c *InventoryController) CreatePart(ctx *fiber.Ctx) error {
	var input createPartInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	existing, err := c.repo.GetByID(input.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if existing != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Part already exists"})
	}

	part := models.InventoryPart{
		ID:         input.ID,
		PartName:   input.PartName,
		TotalStock: input.TotalStock,
		MinStock:   input.MinStock,
	}
	if err := c.repo.Create(&part); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Part created successfully", "data": part})
}

type restockInput struct {
	ExpectedStock int `json:"expected_stock" validate:"gte=0"`
	NewStock      int `json:"new_stock" validate:"gte=0"`
}

// RestockPart sets a part's pool stock through the same compare-and-swap used
// by deliveries: the client sends the stock value it last saw, and the write
// misses if another admin changed it in the meantime.
func (c *InventoryController) RestockPart(ctx *fiber.Ctx) error {
	partID := ctx.Params("id")

	var input restockInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rows, err := c.repo.ConditionalUpdateStock(partID, input.ExpectedStock, input.NewStock, time.Now())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if rows == 0 {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"kind":    "conflict",
			"error":   "stock was changed by someone else — reload and retry",
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock updated"})
}

// ExportExcel generates the inventory ledger as an Excel sheet.
func (c *InventoryController) ExportExcel(ctx *fiber.Ctx) error {
	parts, err := c.repo.GetAll()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Part Code")
	f.SetCellValue(sheet, "B1", "Part Name")
	f.SetCellValue(sheet, "C1", "Total Stock")
	f.SetCellValue(sheet, "D1", "Min Stock")
	f.SetCellValue(sheet, "E1", "Last Updated")

	for i, part := range parts {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), part.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), part.PartName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), part.TotalStock)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), part.MinStock)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), part.LastUpdated.Format("2006-01-02 15:04:05"))
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}

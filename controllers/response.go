package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sparestock/services"
)

// serviceError maps the service error taxonomy onto HTTP responses. The kind
// travels with the payload so the client can distinguish "fix your input",
// "reload, your view is stale" and "stop, manual reconciliation needed".
func serviceError(ctx *fiber.Ctx, err error) error {
	var opErr *services.OpError
	if errors.As(err, &opErr) {
		status := fiber.StatusConflict
		switch opErr.Kind {
		case services.KindValidation:
			status = fiber.StatusBadRequest
		case services.KindFatal:
			status = fiber.StatusInternalServerError
		}
		return ctx.Status(status).JSON(fiber.Map{
			"success":   false,
			"kind":      opErr.Kind,
			"error":     opErr.Message,
			"part_ids":  opErr.PartIDs,
			"shortages": opErr.Shortages,
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
}

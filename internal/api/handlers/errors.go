package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/pkg/logger"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal error with a generic body.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found or access denied"})
	case errors.Is(err, domain.ErrUpstream):
		logger.Error("Upstream service failure", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Upstream service failure"})
	default:
		logger.Error("Internal error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

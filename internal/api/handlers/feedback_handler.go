package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexustrace/backend/internal/auth"
	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/internal/feedback"
	"github.com/nexustrace/backend/internal/metrics"
)

type FeedbackHandler struct {
	service *feedback.Service
}

func NewFeedbackHandler(service *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req struct {
		ChunkID string `json:"chunk_id"`
		Type    string `json:"feedback_type"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	fb := domain.Feedback{
		ChunkID: req.ChunkID,
		Type:    req.Type,
		Comment: req.Comment,
	}
	if err := h.service.Submit(c.Context(), auth.UserID(c), fb); err != nil {
		return respondError(c, err)
	}

	metrics.FeedbackTotal.WithLabelValues(fb.Type).Inc()
	return c.JSON(fiber.Map{"status": "success"})
}

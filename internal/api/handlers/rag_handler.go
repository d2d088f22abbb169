package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nexustrace/backend/internal/auth"
	"github.com/nexustrace/backend/internal/cases"
	"github.com/nexustrace/backend/internal/metrics"
	"github.com/nexustrace/backend/internal/rag"
)

type RagHandler struct {
	service *rag.Service
	cases   *cases.Service
}

func NewRagHandler(service *rag.Service, caseService *cases.Service) *RagHandler {
	return &RagHandler{service: service, cases: caseService}
}

func (h *RagHandler) Ask(c *fiber.Ctx) error {
	var req struct {
		CaseID   string `json:"case_id"`
		Question string `json:"question"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.CaseID == "" || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "case_id and question are required",
		})
	}

	userID := auth.UserID(c)
	if _, err := h.cases.Get(c.Context(), userID, req.CaseID); err != nil {
		return respondError(c, err)
	}

	start := time.Now()
	answer, err := h.service.Ask(c.Context(), userID, req.CaseID, req.Question)
	if err != nil {
		metrics.QuestionDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return respondError(c, err)
	}

	metrics.QuestionDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	metrics.ConfidenceScore.Observe(answer.ConfidenceScore)

	return c.JSON(answer)
}

func (h *RagHandler) Explain(c *fiber.Ctx) error {
	explanation, err := h.service.Explain(c.Context(), c.Params("query_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(explanation)
}

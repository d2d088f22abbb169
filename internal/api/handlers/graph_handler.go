package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexustrace/backend/internal/auth"
	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/internal/graph/analytics"
)

type GraphHandler struct {
	engine *analytics.Engine
}

func NewGraphHandler(engine *analytics.Engine) *GraphHandler {
	return &GraphHandler{engine: engine}
}

func (h *GraphHandler) Timeline(c *fiber.Ctx) error {
	events, err := h.engine.Timeline(c.Context(), auth.UserID(c), c.Params("case_id"))
	if err != nil {
		return respondError(c, err)
	}
	if events == nil {
		events = []domain.TimelineEvent{}
	}
	return c.JSON(events)
}

func (h *GraphHandler) Leads(c *fiber.Ctx) error {
	leads, err := h.engine.Leads(c.Context(), auth.UserID(c), c.Params("case_id"))
	if err != nil {
		return respondError(c, err)
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	return c.JSON(leads)
}

func (h *GraphHandler) Network(c *fiber.Ctx) error {
	network, err := h.engine.Network(c.Context(), auth.UserID(c), c.Params("case_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(network)
}

// Mindmap returns null for a case that exists but has no evidence yet, a
// condition callers distinguish from a missing case (404).
func (h *GraphHandler) Mindmap(c *fiber.Ctx) error {
	mindmap, err := h.engine.Mindmap(c.Context(), auth.UserID(c), c.Params("case_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mindmap)
}

func (h *GraphHandler) Entities(c *fiber.Ctx) error {
	entities, err := h.engine.Entities(c.Context(), auth.UserID(c), c.Params("case_id"))
	if err != nil {
		return respondError(c, err)
	}
	if entities == nil {
		entities = []domain.EntitySummary{}
	}
	return c.JSON(entities)
}

func (h *GraphHandler) Entity(c *fiber.Ctx) error {
	detail, err := h.engine.Entity(c.Context(), c.Params("entity_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

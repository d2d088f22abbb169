package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexustrace/backend/internal/auth"
	"github.com/nexustrace/backend/internal/cases"
	"github.com/nexustrace/backend/internal/domain"
)

type CaseHandler struct {
	service *cases.Service
}

func NewCaseHandler(service *cases.Service) *CaseHandler {
	return &CaseHandler{service: service}
}

func (h *CaseHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := h.service.Create(c.Context(), auth.UserID(c), req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CaseHandler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context(), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if list == nil {
		list = []domain.Case{}
	}
	return c.JSON(list)
}

func (h *CaseHandler) Get(c *fiber.Ctx) error {
	found, err := h.service.Get(c.Context(), auth.UserID(c), c.Params("case_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(found)
}

func (h *CaseHandler) Update(c *fiber.Ctx) error {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	patch := domain.CasePatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	}
	updated, err := h.service.Update(c.Context(), auth.UserID(c), c.Params("case_id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *CaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), auth.UserID(c), c.Params("case_id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Case deleted",
	})
}

package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nexustrace/backend/internal/auth"
	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/internal/ingestion"
	"github.com/nexustrace/backend/internal/metrics"
)

// EvidenceLister is the slice of the graph store evidence reads consume.
type EvidenceLister interface {
	ListEvidence(ctx context.Context, userID, caseID string) ([]domain.Evidence, error)
	GetEvidence(ctx context.Context, userID, evidenceID string) (domain.Evidence, error)
}

type EvidenceHandler struct {
	pipeline *ingestion.Pipeline
	store    EvidenceLister
}

func NewEvidenceHandler(pipeline *ingestion.Pipeline, store EvidenceLister) *EvidenceHandler {
	return &EvidenceHandler{pipeline: pipeline, store: store}
}

// Upload ingests one multipart document into the case.
func (h *EvidenceHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	fileType := fileExtension(fileHeader.Filename)
	result, err := h.pipeline.Process(c.Context(), auth.UserID(c), c.Params("case_id"), fileHeader.Filename, fileType, data)
	if err != nil {
		metrics.EvidenceProcessed.WithLabelValues(fileType, "error").Inc()
		return respondError(c, err)
	}

	metrics.EvidenceProcessed.WithLabelValues(fileType, "success").Inc()
	metrics.ChunksIngested.Add(float64(result.ChunkCount))

	return c.JSON(fiber.Map{
		"status":      "processed",
		"evidence_id": result.EvidenceID,
		"chunks":      result.ChunkCount,
	})
}

func (h *EvidenceHandler) List(c *fiber.Ctx) error {
	list, err := h.store.ListEvidence(c.Context(), auth.UserID(c), c.Params("case_id"))
	if err != nil {
		return respondError(c, err)
	}
	if list == nil {
		list = []domain.Evidence{}
	}
	return c.JSON(list)
}

func (h *EvidenceHandler) Get(c *fiber.Ctx) error {
	ev, err := h.store.GetEvidence(c.Context(), auth.UserID(c), c.Params("evidence_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ev)
}

func fileExtension(filename string) string {
	parts := strings.Split(filename, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.ToLower(parts[len(parts)-1])
}

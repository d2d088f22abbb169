package ingestion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/pkg/logger"
)

// GraphWriter is the slice of the graph store ingestion writes through.
type GraphWriter interface {
	CreateEvidence(ctx context.Context, userID string, ev domain.Evidence) error
	StoreChunk(ctx context.Context, caseID string, chunk domain.Chunk, entities []domain.Entity) error
}

// Embedder turns chunk text into its retrieval embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EntityExtractor pulls named entities out of chunk text.
type EntityExtractor interface {
	Extract(text string) []domain.Entity
}

// RiskScorer assigns the heuristic risk score from chunk text and its
// normalized timestamp.
type RiskScorer interface {
	Score(text, timestamp string) float64
}

type Pipeline struct {
	store        GraphWriter
	embedder     Embedder
	extractor    EntityExtractor
	scorer       RiskScorer
	chunkSize    int
	chunkOverlap int
}

func NewPipeline(store GraphWriter, embedder Embedder, extractor EntityExtractor, scorer RiskScorer, chunkSize, chunkOverlap int) *Pipeline {
	return &Pipeline{
		store:        store,
		embedder:     embedder,
		extractor:    extractor,
		scorer:       scorer,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Result reports a completed ingestion.
type Result struct {
	EvidenceID string `json:"evidence_id"`
	ChunkCount int    `json:"chunks"`
}

// Process runs the full ingestion of one uploaded document: validate and
// parse, create the evidence node, then chunk and enrich. Every persisted
// chunk carries its risk score and embedding; an embedding failure aborts
// the ingestion rather than storing a chunk without one.
func (p *Pipeline) Process(ctx context.Context, userID, caseID, filename, fileType string, data []byte) (Result, error) {
	if !AllowedFileTypes[fileType] {
		return Result{}, fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, fileType)
	}

	text, err := ParseFile(data, fileType)
	if err != nil {
		return Result{}, err
	}

	evidence := domain.Evidence{
		EvidenceID: uuid.New().String(),
		CaseID:     caseID,
		Filename:   filename,
		FileType:   fileType,
	}
	if err := p.store.CreateEvidence(ctx, userID, evidence); err != nil {
		return Result{}, err
	}

	pieces := ChunkText(text, p.chunkSize, p.chunkOverlap)
	for _, piece := range pieces {
		chunkText := piece.Text

		entities := p.extractor.Extract(chunkText)
		risk := p.scorer.Score(chunkText, piece.Timestamp)

		embedding, err := p.embedder.Embed(ctx, chunkText)
		if err != nil {
			return Result{}, fmt.Errorf("%w: embedding chunk %d of %s: %v", domain.ErrUpstream, piece.Index, evidence.EvidenceID, err)
		}

		chunk := domain.Chunk{
			ChunkID:    uuid.New().String(),
			CaseID:     caseID,
			EvidenceID: evidence.EvidenceID,
			Index:      piece.Index,
			Text:       chunkText,
			Timestamp:  piece.Timestamp,
			RiskScore:  risk,
			Embedding:  embedding,
		}
		if err := p.store.StoreChunk(ctx, caseID, chunk, entities); err != nil {
			return Result{}, err
		}
	}

	logger.Info("Evidence processed",
		zap.String("case_id", caseID),
		zap.String("evidence_id", evidence.EvidenceID),
		zap.String("filename", filename),
		zap.Int("chunks", len(pieces)),
	)
	return Result{EvidenceID: evidence.EvidenceID, ChunkCount: len(pieces)}, nil
}

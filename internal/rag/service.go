package rag

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/internal/metrics"
	"github.com/nexustrace/backend/pkg/logger"
)

// TraceStore persists and reconstructs query traces.
type TraceStore interface {
	SaveQueryTrace(ctx context.Context, userID, caseID, queryID, question, answer string, chunks []domain.RetrievedChunk) error
	GetQueryTrace(ctx context.Context, queryID string) (domain.Explanation, error)
}

type Service struct {
	retriever *Retriever
	generator *Generator
	traces    TraceStore
}

func NewService(retriever *Retriever, generator *Generator, traces TraceStore) *Service {
	return &Service{retriever: retriever, generator: generator, traces: traces}
}

// Ask answers a question over the case's evidence: retrieve, assemble
// context, generate, then persist the trace linking the query to every chunk
// that informed the answer.
func (s *Service) Ask(ctx context.Context, userID, caseID, question string) (domain.Answer, error) {
	chunks, err := s.retriever.Retrieve(ctx, userID, caseID, question)
	if err != nil {
		return domain.Answer{}, err
	}
	observeRetrieval(chunks)

	contextBlock := BuildContext(chunks)
	answer := s.generator.Generate(ctx, question, contextBlock)

	answer.QueryID = uuid.New().String()
	if err := s.traces.SaveQueryTrace(ctx, userID, caseID, answer.QueryID, question, answer.Answer, chunks); err != nil {
		return domain.Answer{}, err
	}

	logger.Info("Question answered",
		zap.String("case_id", caseID),
		zap.String("query_id", answer.QueryID),
		zap.Int("retrieved", len(chunks)),
		zap.Float64("confidence", answer.ConfidenceScore),
	)
	return answer, nil
}

func observeRetrieval(chunks []domain.RetrievedChunk) {
	var vector, graph float64
	for _, ch := range chunks {
		if ch.Source == domain.SourceGraph {
			graph++
		} else {
			vector++
		}
	}
	metrics.RetrievedChunks.WithLabelValues(domain.SourceVector).Observe(vector)
	metrics.RetrievedChunks.WithLabelValues(domain.SourceGraph).Observe(graph)
}

// Explain reconstructs the retrieval trace of a past query.
func (s *Service) Explain(ctx context.Context, queryID string) (domain.Explanation, error) {
	return s.traces.GetQueryTrace(ctx, queryID)
}

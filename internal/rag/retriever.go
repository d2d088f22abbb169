package rag

import (
	"context"

	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/pkg/logger"
)

const (
	similarityThreshold = 0.3
	fallbackThreshold   = 0.1
	expansionLimit      = 5
)

// Embedder produces the query embedding for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChunkSearcher is the slice of the graph store retrieval consumes.
type ChunkSearcher interface {
	SimilaritySearch(ctx context.Context, userID, caseID string, embedding []float32, threshold float64, topK int) ([]domain.RetrievedChunk, error)
	CountChunks(ctx context.Context, caseID string) (int64, error)
	ExpandByEntities(ctx context.Context, userID, caseID string, chunkIDs []string, limit int) ([]domain.RetrievedChunk, error)
}

type Retriever struct {
	embedder Embedder
	store    ChunkSearcher
	topK     int
}

func NewRetriever(embedder Embedder, store ChunkSearcher, topK int) *Retriever {
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve runs the hybrid retrieval pass: vector similarity at the standard
// threshold, one relaxed retry when the case has chunks but nothing scored
// above it, then one hop of entity-overlap expansion from the vector hits.
// Vector results always precede graph-expanded results.
func (r *Retriever) Retrieve(ctx context.Context, userID, caseID, question string) ([]domain.RetrievedChunk, error) {
	embedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	vectorChunks, err := r.store.SimilaritySearch(ctx, userID, caseID, embedding, similarityThreshold, r.topK)
	if err != nil {
		return nil, err
	}

	if len(vectorChunks) == 0 {
		total, err := r.store.CountChunks(ctx, caseID)
		if err != nil {
			return nil, err
		}
		if total > 0 {
			logger.Debug("No chunks above threshold, retrying relaxed",
				zap.String("case_id", caseID),
				zap.Int64("total_chunks", total),
			)
			vectorChunks, err = r.store.SimilaritySearch(ctx, userID, caseID, embedding, fallbackThreshold, r.topK)
			if err != nil {
				return nil, err
			}
		}
	}

	if len(vectorChunks) == 0 {
		return vectorChunks, nil
	}

	chunkIDs := make([]string, len(vectorChunks))
	for i, ch := range vectorChunks {
		chunkIDs[i] = ch.ChunkID
	}
	expanded, err := r.store.ExpandByEntities(ctx, userID, caseID, chunkIDs, expansionLimit)
	if err != nil {
		return nil, err
	}

	return append(vectorChunks, expanded...), nil
}

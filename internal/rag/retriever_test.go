package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexustrace/backend/internal/domain"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeSearcher struct {
	byThreshold map[float64][]domain.RetrievedChunk
	expanded    []domain.RetrievedChunk
	chunkCount  int64

	searchThresholds []float64
	expandedFrom     []string
}

func (f *fakeSearcher) SimilaritySearch(ctx context.Context, userID, caseID string, embedding []float32, threshold float64, topK int) ([]domain.RetrievedChunk, error) {
	f.searchThresholds = append(f.searchThresholds, threshold)
	return f.byThreshold[threshold], nil
}

func (f *fakeSearcher) CountChunks(ctx context.Context, caseID string) (int64, error) {
	return f.chunkCount, nil
}

func (f *fakeSearcher) ExpandByEntities(ctx context.Context, userID, caseID string, chunkIDs []string, limit int) ([]domain.RetrievedChunk, error) {
	f.expandedFrom = chunkIDs
	return f.expanded, nil
}

func vectorChunk(id string, score float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{ChunkID: id, Text: "text " + id, Score: score, Source: domain.SourceVector}
}

func graphChunk(id string, shared ...string) domain.RetrievedChunk {
	return domain.RetrievedChunk{ChunkID: id, Source: domain.SourceGraph, SharedEntities: shared}
}

func TestRetrieveVectorThenExpansion(t *testing.T) {
	store := &fakeSearcher{
		byThreshold: map[float64][]domain.RetrievedChunk{
			0.3: {vectorChunk("c1", 0.8), vectorChunk("c2", 0.5)},
		},
		expanded:   []domain.RetrievedChunk{graphChunk("c3", "Alice Smith")},
		chunkCount: 10,
	}
	r := NewRetriever(fakeEmbedder{}, store, 5)

	got, err := r.Retrieve(context.Background(), "u1", "case1", "what happened?")
	require.NoError(t, err)

	require.Len(t, got, 3)
	// Vector results precede graph-expanded results.
	assert.Equal(t, domain.SourceVector, got[0].Source)
	assert.Equal(t, domain.SourceVector, got[1].Source)
	assert.Equal(t, domain.SourceGraph, got[2].Source)
	assert.Equal(t, []string{"c1", "c2"}, store.expandedFrom)
	assert.Equal(t, []float64{0.3}, store.searchThresholds)
}

func TestRetrieveRelaxesThresholdWhenChunksExist(t *testing.T) {
	store := &fakeSearcher{
		byThreshold: map[float64][]domain.RetrievedChunk{
			0.1: {vectorChunk("c1", 0.15)},
		},
		chunkCount: 4,
	}
	r := NewRetriever(fakeEmbedder{}, store, 5)

	got, err := r.Retrieve(context.Background(), "u1", "case1", "question")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ChunkID)
	assert.Equal(t, []float64{0.3, 0.1}, store.searchThresholds)
}

func TestRetrieveEmptyCaseSkipsRelaxation(t *testing.T) {
	store := &fakeSearcher{chunkCount: 0}
	r := NewRetriever(fakeEmbedder{}, store, 5)

	got, err := r.Retrieve(context.Background(), "u1", "case1", "question")
	require.NoError(t, err)

	assert.Empty(t, got)
	// No second search and no expansion against an empty case.
	assert.Equal(t, []float64{0.3}, store.searchThresholds)
	assert.Nil(t, store.expandedFrom)
}

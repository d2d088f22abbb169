package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexustrace/backend/internal/domain"
)

type fakeGraphWriter struct {
	evidence []domain.Evidence
	chunks   []domain.Chunk
	entities [][]domain.Entity
}

func (f *fakeGraphWriter) CreateEvidence(ctx context.Context, userID string, ev domain.Evidence) error {
	f.evidence = append(f.evidence, ev)
	return nil
}

func (f *fakeGraphWriter) StoreChunk(ctx context.Context, caseID string, chunk domain.Chunk, entities []domain.Entity) error {
	f.chunks = append(f.chunks, chunk)
	f.entities = append(f.entities, entities)
	return nil
}

type stubEmbedder struct {
	err   error
	calls int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.5, 0.5}, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(text string) []domain.Entity {
	return []domain.Entity{{Name: "10.0.0.5", Type: "IP_ADDRESS"}}
}

type stubScorer struct{}

func (stubScorer) Score(text, timestamp string) float64 { return 0.4 }

func TestProcessStoresEnrichedChunks(t *testing.T) {
	store := &fakeGraphWriter{}
	p := NewPipeline(store, &stubEmbedder{}, stubExtractor{}, stubScorer{}, 600, 100)

	result, err := p.Process(context.Background(), "u1", "case1", "auth.log.txt", "txt",
		[]byte("login denied from 10.0.0.5 at 2024-02-15T14:30:00Z"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.ChunkCount)
	require.Len(t, store.evidence, 1)
	assert.Equal(t, "auth.log.txt", store.evidence[0].Filename)
	assert.Equal(t, result.EvidenceID, store.evidence[0].EvidenceID)

	require.Len(t, store.chunks, 1)
	chunk := store.chunks[0]
	assert.Equal(t, result.EvidenceID, chunk.EvidenceID)
	assert.Equal(t, "2024-02-15T14:30:00Z", chunk.Timestamp)
	assert.InDelta(t, 0.4, chunk.RiskScore, 1e-9)
	assert.NotEmpty(t, chunk.Embedding)
	assert.Equal(t, []domain.Entity{{Name: "10.0.0.5", Type: "IP_ADDRESS"}}, store.entities[0])
}

func TestProcessRejectsUnsupportedType(t *testing.T) {
	p := NewPipeline(&fakeGraphWriter{}, &stubEmbedder{}, stubExtractor{}, stubScorer{}, 600, 100)

	_, err := p.Process(context.Background(), "u1", "case1", "tool.exe", "exe", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProcessAbortsOnEmbeddingFailure(t *testing.T) {
	store := &fakeGraphWriter{}
	embedder := &stubEmbedder{err: errors.New("rate limited")}
	p := NewPipeline(store, embedder, stubExtractor{}, stubScorer{}, 600, 100)

	_, err := p.Process(context.Background(), "u1", "case1", "a.txt", "txt", []byte("some text"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	// No chunk is persisted without its embedding.
	assert.Empty(t, store.chunks)
}

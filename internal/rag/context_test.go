package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexustrace/backend/internal/domain"
)

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
	assert.Equal(t, "", BuildContext([]domain.RetrievedChunk{}))
}

func TestBuildContextVectorChunk(t *testing.T) {
	got := BuildContext([]domain.RetrievedChunk{
		{ChunkID: "c1", Text: "login at dawn", Source: domain.SourceVector},
	})
	assert.Equal(t, "[Chunk ID: c1]\nlogin at dawn\n\n", got)
}

func TestBuildContextGraphChunkNamesEntities(t *testing.T) {
	got := BuildContext([]domain.RetrievedChunk{
		{ChunkID: "c1", Text: "first", Source: domain.SourceVector},
		{ChunkID: "c2", Text: "second", Source: domain.SourceGraph, SharedEntities: []string{"Alice Smith", "10.0.0.5"}},
	})
	assert.Equal(t,
		"[Chunk ID: c1]\nfirst\n\n[Chunk ID: c2] (Linked via Entities: Alice Smith, 10.0.0.5)\nsecond\n\n",
		got)
}

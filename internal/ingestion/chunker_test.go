package ingestion

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkTextEmpty(t *testing.T) {
	assert.Nil(t, ChunkText("", 600, 100))
	assert.Nil(t, ChunkText("   \n\t  ", 600, 100))
}

func TestChunkTextSingleChunkWhenInputFits(t *testing.T) {
	for _, n := range []int{1, 10, 599, 600} {
		pieces := ChunkText(tokens(n), 600, 100)
		require.Len(t, pieces, 1, "n=%d", n)
		assert.Equal(t, 0, pieces[0].Index)
		assert.Len(t, strings.Fields(pieces[0].Text), n)
	}
}

func TestChunkTextWindowCount(t *testing.T) {
	tests := []struct {
		n, size, overlap, want int
	}{
		{601, 600, 100, 2},
		{1100, 600, 100, 2},
		{1101, 600, 100, 3},
		{1000, 100, 0, 10},
		{1000, 100, 50, 19},
	}
	for _, tt := range tests {
		pieces := ChunkText(tokens(tt.n), tt.size, tt.overlap)
		assert.Len(t, pieces, tt.want, "n=%d size=%d overlap=%d", tt.n, tt.size, tt.overlap)
	}
}

func TestChunkTextOverlapSharesTokens(t *testing.T) {
	pieces := ChunkText(tokens(150), 100, 20)
	require.Len(t, pieces, 2)

	first := strings.Fields(pieces[0].Text)
	second := strings.Fields(pieces[1].Text)
	assert.Len(t, first, 100)
	assert.Len(t, second, 70)
	assert.Equal(t, first[80:], second[:20])
	assert.Equal(t, 1, pieces[1].Index)
}

func TestChunkTextInvalidParamsFallBack(t *testing.T) {
	// Non-positive size falls back to the default window.
	pieces := ChunkText(tokens(600), 0, 100)
	assert.Len(t, pieces, 1)

	// Invalid overlap falls back to the default; 1101 tokens at size 600
	// split into 3 windows only when the 100-token overlap applies.
	pieces = ChunkText(tokens(1101), 600, -5)
	assert.Len(t, pieces, 3)

	// Overlap >= size is dropped rather than looping forever.
	pieces = ChunkText(tokens(10), 4, 7)
	require.NotEmpty(t, pieces)
	assert.Len(t, pieces, 3)
}

func TestChunkTextAnnotatesTimestamp(t *testing.T) {
	pieces := ChunkText("event at 2024-02-15T14:30:00Z logged", 600, 100)
	require.Len(t, pieces, 1)
	assert.Equal(t, "2024-02-15T14:30:00Z", pieces[0].Timestamp)
}

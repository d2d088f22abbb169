package ingestion

import "strings"

const (
	DefaultChunkSize    = 600
	DefaultChunkOverlap = 100
)

// Piece is one token window of a parsed document, annotated with the first
// timestamp extractable from its text.
type Piece struct {
	Index     int
	Text      string
	Timestamp string
}

// ChunkText splits whitespace-tokenized text into windows of size tokens
// with overlap tokens shared between consecutive windows. The final window
// may be shorter; an input of size tokens or fewer yields exactly one chunk.
// Empty input yields nil.
func ChunkText(text string, size, overlap int) []Piece {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = 0
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	var pieces []Piece
	start := 0
	for index := 0; ; index++ {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}

		chunk := strings.Join(tokens[start:end], " ")
		pieces = append(pieces, Piece{
			Index:     index,
			Text:      chunk,
			Timestamp: ExtractTimestamp(chunk),
		})

		if end == len(tokens) {
			break
		}
		start += size - overlap
	}

	return pieces
}

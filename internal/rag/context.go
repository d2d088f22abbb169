package rag

import (
	"fmt"
	"strings"

	"github.com/nexustrace/backend/internal/domain"
)

// BuildContext renders the retrieval set into the citation-addressable text
// block the generator receives. Each chunk is introduced by its id so the
// model can cite it; graph-expanded chunks additionally name the shared
// entities that pulled them in. An empty set yields an empty string.
func BuildContext(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var b strings.Builder
	for _, chunk := range chunks {
		b.WriteString(fmt.Sprintf("[Chunk ID: %s]", chunk.ChunkID))
		if chunk.Source == domain.SourceGraph {
			b.WriteString(fmt.Sprintf(" (Linked via Entities: %s)", strings.Join(chunk.SharedEntities, ", ")))
		}
		b.WriteString("\n")
		b.WriteString(chunk.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

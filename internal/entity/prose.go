package entity

import (
	"fmt"

	prose "github.com/jdkato/prose/v2"

	"github.com/nexustrace/backend/internal/domain"
)

// ProseRecognizer runs the prose NER model in-process. It satisfies
// Recognizer and is constructed once at startup and injected wherever
// extraction happens, so tests can swap in a fake.
type ProseRecognizer struct{}

func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

func (r *ProseRecognizer) Recognize(text string) ([]domain.Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("failed to run NER model: %w", err)
	}

	var entities []domain.Entity
	for _, ent := range doc.Entities() {
		entities = append(entities, domain.Entity{Name: ent.Text, Type: ent.Label})
	}
	return entities, nil
}

package entity

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/pkg/logger"
)

// Entity types.
const (
	TypePerson    = "PERSON"
	TypeOrg       = "ORG"
	TypeGPE       = "GPE"
	TypeDate      = "DATE"
	TypeEmail     = "EMAIL"
	TypeIPAddress = "IP_ADDRESS"
)

// Recognizer is the named-entity-recognition boundary. Implementations may
// fail or be absent entirely; extraction then degrades to regex-only.
type Recognizer interface {
	Recognize(text string) ([]domain.Entity, error)
}

var modelTypes = map[string]bool{
	TypePerson: true,
	TypeOrg:    true,
	TypeGPE:    true,
	TypeDate:   true,
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	ipv4Re  = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)
)

type Extractor struct {
	recognizer Recognizer
}

func NewExtractor(recognizer Recognizer) *Extractor {
	return &Extractor{recognizer: recognizer}
}

// Extract merges model-based entity spans (filtered to person, organization,
// location and date types) with regex-detected emails and IPv4 literals.
// Regex matches are de-duplicated within their own source only.
func (e *Extractor) Extract(text string) []domain.Entity {
	var entities []domain.Entity

	if e.recognizer != nil {
		spans, err := e.recognizer.Recognize(text)
		if err != nil {
			logger.Warn("NER unavailable, falling back to regex extraction", zap.Error(err))
		} else {
			for _, span := range spans {
				if modelTypes[span.Type] {
					entities = append(entities, span)
				}
			}
		}
	}

	for _, email := range uniqueMatches(emailRe, text) {
		entities = append(entities, domain.Entity{Name: email, Type: TypeEmail})
	}

	for _, ip := range uniqueMatches(ipv4Re, text) {
		entities = append(entities, domain.Entity{Name: ip, Type: TypeIPAddress})
	}

	return entities
}

func uniqueMatches(re *regexp.Regexp, text string) []string {
	seen := make(map[string]bool)
	var matches []string
	for _, m := range re.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			matches = append(matches, m)
		}
	}
	return matches
}

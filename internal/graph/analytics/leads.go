package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/nexustrace/backend/internal/domain"
)

// entityTypeLabels maps extractor type tags onto the coarser labels the lead
// view exposes.
var entityTypeLabels = map[string]string{
	"PERSON":     "person",
	"ORG":        "organization",
	"GPE":        "location",
	"EMAIL":      "email",
	"IP_ADDRESS": "ip",
	"DATE":       "other",
}

// entityRisk scores an entity from its mention volume and the mean risk of
// the chunks mentioning it. Entities whose chunks carry no risk scores fall
// back to a mention-driven baseline. Capped at 1.0.
func entityRisk(avgRisk *float64, mentionCount int) float64 {
	var risk float64
	if avgRisk == nil {
		risk = 0.3 + float64(mentionCount)*0.05
	} else {
		risk = *avgRisk + float64(mentionCount)*0.02
	}
	if risk > 1.0 {
		return 1.0
	}
	return risk
}

// leadReason synthesizes the human-readable justification for an entity's
// ranking from its mention volume, connectivity and a keyword scan over a
// sample of the texts mentioning it.
func leadReason(st domain.EntityStats, risk float64) string {
	var parts []string

	switch {
	case st.MentionCount > 20:
		parts = append(parts, fmt.Sprintf("appears in %d evidence chunks", st.MentionCount))
	case st.MentionCount > 10:
		parts = append(parts, fmt.Sprintf("mentioned %d times across evidence", st.MentionCount))
	case st.MentionCount > 1:
		parts = append(parts, fmt.Sprintf("found in %d locations", st.MentionCount))
	default:
		parts = append(parts, "single occurrence")
	}

	switch {
	case st.ConnectionCount > 15:
		parts = append(parts, fmt.Sprintf("connected to %d other entities", st.ConnectionCount))
	case st.ConnectionCount > 5:
		parts = append(parts, fmt.Sprintf("%d entity connections", st.ConnectionCount))
	case st.ConnectionCount > 0:
		parts = append(parts, fmt.Sprintf("%d connections", st.ConnectionCount))
	}

	if len(st.ChunkTexts) > 0 {
		sample := st.ChunkTexts
		if len(sample) > textSampleSize {
			sample = sample[:textSampleSize]
		}
		combined := strings.ToLower(strings.Join(sample, " "))

		if containsAny(combined, "failed", "denied", "unauthorized", "blocked") {
			parts = append(parts, "involvement in failed/denied activities")
		}
		if containsAny(combined, "sensitive", "confidential", "secret", "private") {
			parts = append(parts, "access to sensitive resources")
		}
		if containsAny(combined, "transfer", "exfiltrate", "download", "export") {
			parts = append(parts, "data transfer activity")
		}
		if containsAny(combined, "suspicious", "anomal", "unusual", "abnormal") {
			parts = append(parts, "flagged as unusual behavior")
		}
	}

	if len(parts) == 1 {
		switch {
		case risk >= 0.7:
			parts = append(parts, "high-risk activity detected")
		case risk >= 0.5:
			parts = append(parts, "moderate-risk patterns observed")
		default:
			parts = append(parts, "low-risk profile")
		}
	}

	return capitalize(strings.Join(parts, ", "))
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Leads returns the case's entities ranked by risk then mention count, each
// with a synthesized reason, capped at 100 entries.
func (e *Engine) Leads(ctx context.Context, userID, caseID string) ([]domain.Lead, error) {
	if err := e.verifyCase(ctx, userID, caseID); err != nil {
		return nil, err
	}

	stats, err := e.store.EntityStats(ctx, caseID, leadLimit)
	if err != nil {
		return nil, err
	}

	leads := make([]domain.Lead, 0, len(stats))
	for _, st := range stats {
		risk := entityRisk(st.AvgRisk, st.MentionCount)

		name := st.Name
		if name == "" {
			name = "Unknown"
		}
		entityType, ok := entityTypeLabels[st.Type]
		if !ok {
			entityType = "other"
		}

		leads = append(leads, domain.Lead{
			ID:          st.EntityID,
			Entity:      name,
			EntityType:  entityType,
			RiskScore:   math.Round(risk*100) / 100,
			Reason:      leadReason(st, risk),
			Connections: st.ConnectionCount,
			LastSeen:    e.normalizeTimestamp(st.LastSeen),
		})
	}
	return leads, nil
}

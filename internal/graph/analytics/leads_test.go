package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexustrace/backend/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestEntityRisk(t *testing.T) {
	// Scored chunks: mean risk plus a small mention bump.
	assert.InDelta(t, 0.94, entityRisk(floatPtr(0.9), 2), 1e-9)
	// Unscored chunks fall back to the mention-driven baseline.
	assert.InDelta(t, 0.45, entityRisk(nil, 3), 1e-9)
	// Capped at 1.0.
	assert.Equal(t, 1.0, entityRisk(floatPtr(0.95), 10))
	assert.Equal(t, 1.0, entityRisk(nil, 20))
}

func TestLeadReasonMentionTiers(t *testing.T) {
	assert.Equal(t, "Appears in 25 evidence chunks, low-risk profile",
		leadReason(domain.EntityStats{MentionCount: 25}, 0.2))
	assert.Equal(t, "Mentioned 12 times across evidence, low-risk profile",
		leadReason(domain.EntityStats{MentionCount: 12}, 0.2))
	assert.Equal(t, "Found in 3 locations, low-risk profile",
		leadReason(domain.EntityStats{MentionCount: 3}, 0.2))
	assert.Equal(t, "Single occurrence, low-risk profile",
		leadReason(domain.EntityStats{MentionCount: 1}, 0.2))
}

func TestLeadReasonConnectionsAndKeywords(t *testing.T) {
	st := domain.EntityStats{
		MentionCount:    5,
		ConnectionCount: 7,
		ChunkTexts:      []string{"access denied for transfer of confidential files"},
	}
	got := leadReason(st, 0.8)
	assert.Equal(t, "Found in 5 locations, 7 entity connections, involvement in failed/denied activities, access to sensitive resources, data transfer activity", got)
}

func TestLeadReasonRiskTierFallback(t *testing.T) {
	assert.Equal(t, "Single occurrence, high-risk activity detected",
		leadReason(domain.EntityStats{MentionCount: 1}, 0.75))
	assert.Equal(t, "Single occurrence, moderate-risk patterns observed",
		leadReason(domain.EntityStats{MentionCount: 1}, 0.55))
}

func TestLeadReasonSamplesFirstTenTexts(t *testing.T) {
	texts := make([]string, 12)
	for i := range texts {
		texts[i] = "routine"
	}
	texts[11] = "suspicious transfer" // beyond the sample window
	got := leadReason(domain.EntityStats{MentionCount: 12, ChunkTexts: texts}, 0.2)
	assert.Equal(t, "Mentioned 12 times across evidence, low-risk profile", got)
}

func TestLeadsMapsEntityTypes(t *testing.T) {
	store := &fakeStore{stats: []domain.EntityStats{
		{EntityID: "e1", Name: "Alice Smith", Type: "PERSON", MentionCount: 2, AvgRisk: floatPtr(0.9), ConnectionCount: 1, LastSeen: "2024-02-15T14:30:00Z"},
		{EntityID: "e2", Name: "10.0.0.5", Type: "IP_ADDRESS", MentionCount: 1},
		{EntityID: "e3", Name: "Q4 report", Type: "WORK_OF_ART", MentionCount: 1},
	}}
	e := newTestEngine(store)

	leads, err := e.Leads(context.Background(), "u1", "case1")
	require.NoError(t, err)
	require.Len(t, leads, 3)

	assert.Equal(t, "person", leads[0].EntityType)
	assert.InDelta(t, 0.94, leads[0].RiskScore, 1e-9)
	assert.Equal(t, "2024-02-15T14:30:00Z", leads[0].LastSeen)
	assert.Equal(t, 1, leads[0].Connections)

	assert.Equal(t, "ip", leads[1].EntityType)
	// Unknown extractor types map to "other".
	assert.Equal(t, "other", leads[2].EntityType)
	// Missing last occurrence is filled with the current instant.
	assert.Equal(t, "2024-03-01T12:00:00Z", leads[1].LastSeen)
}

func TestLeadsRoundsRiskToTwoDecimals(t *testing.T) {
	store := &fakeStore{stats: []domain.EntityStats{
		{EntityID: "e1", Name: "x", Type: "ORG", MentionCount: 3, AvgRisk: floatPtr(0.333)},
	}}
	e := newTestEngine(store)

	leads, err := e.Leads(context.Background(), "u1", "case1")
	require.NoError(t, err)
	// 0.333 + 3*0.02 = 0.393, rounded to 0.39.
	assert.Equal(t, 0.39, leads[0].RiskScore)
}

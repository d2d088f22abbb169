package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexustrace/backend/internal/domain"
)

func TestMindmapBuildsFourLevelTree(t *testing.T) {
	store := &fakeStore{
		mindmapName: "Insider Threat",
		mindmapRows: []domain.MindmapRow{
			{Evidence: "auth.log", EntityType: "PERSON", EntityName: "Alice Smith"},
			{Evidence: "auth.log", EntityType: "PERSON", EntityName: "Bob Jones"},
			{Evidence: "auth.log", EntityType: "IP_ADDRESS", EntityName: "10.0.0.5"},
			{Evidence: "mail.csv", EntityType: "EMAIL", EntityName: "alice@corp.example"},
			// Duplicate triple must not create a second leaf.
			{Evidence: "auth.log", EntityType: "PERSON", EntityName: "Alice Smith"},
		},
	}
	e := newTestEngine(store)

	mindmap, err := e.Mindmap(context.Background(), "u1", "case1")
	require.NoError(t, err)
	require.NotNil(t, mindmap)

	root := mindmap.Root
	assert.Equal(t, "Insider Threat", root.Label)
	assert.Equal(t, "root", root.Type)
	require.Len(t, root.Children, 2)

	authLog := root.Children[0]
	assert.Equal(t, "auth.log", authLog.Label)
	assert.Equal(t, "evidence", authLog.Type)
	require.Len(t, authLog.Children, 2)

	persons := authLog.Children[0]
	assert.Equal(t, "PERSON", persons.Label)
	assert.Equal(t, "entity_type", persons.Type)
	require.Len(t, persons.Children, 2)
	assert.Equal(t, "Alice Smith", persons.Children[0].Label)
	assert.Equal(t, "entity", persons.Children[0].Type)

	mailCsv := root.Children[1]
	assert.Equal(t, "mail.csv", mailCsv.Label)
	require.Len(t, mailCsv.Children, 1)
}

func TestMindmapEvidenceWithoutEntities(t *testing.T) {
	store := &fakeStore{
		mindmapName: "Case A",
		mindmapRows: []domain.MindmapRow{{Evidence: "empty.txt"}},
	}
	e := newTestEngine(store)

	mindmap, err := e.Mindmap(context.Background(), "u1", "case1")
	require.NoError(t, err)
	require.NotNil(t, mindmap)
	require.Len(t, mindmap.Root.Children, 1)
	assert.Empty(t, mindmap.Root.Children[0].Children)
}

func TestMindmapNilWhenNoEvidence(t *testing.T) {
	store := &fakeStore{
		mindmapName: "Case A",
		mindmapRows: []domain.MindmapRow{{}},
	}
	e := newTestEngine(store)

	mindmap, err := e.Mindmap(context.Background(), "u1", "case1")
	require.NoError(t, err)
	assert.Nil(t, mindmap)
}

func TestMindmapMissingCase(t *testing.T) {
	store := &fakeStore{mindmapErr: domain.ErrNotFound}
	e := newTestEngine(store)

	_, err := e.Mindmap(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNetworkDeduplicatesEntityNodes(t *testing.T) {
	store := &fakeStore{
		caseNode: domain.NetworkNode{ID: "n1", Label: "Case A", Type: "Case"},
		evidence: []domain.NetworkNode{
			{ID: "n2", Label: "auth.log", Type: "Evidence"},
			{ID: "n3", Label: "mail.csv", Type: "Evidence"},
		},
		evidenceSrc: []string{"n1", "n1"},
		entities: []domain.NetworkNode{
			{ID: "n4", Label: "Alice Smith", Type: "Entity"},
			{ID: "n4", Label: "Alice Smith", Type: "Entity"},
		},
		entitiesSrc: []string{"n2", "n3"},
	}
	e := newTestEngine(store)

	network, err := e.Network(context.Background(), "u1", "case1")
	require.NoError(t, err)

	// One case + two evidence + one deduplicated entity.
	require.Len(t, network.Nodes, 4)
	// Both evidence files still get their MENTIONS edge.
	require.Len(t, network.Edges, 4)
	assert.Equal(t, "n1_n2", network.Edges[0].ID)
	assert.Equal(t, "HAS_EVIDENCE", network.Edges[0].Label)
	assert.Equal(t, "n2_n4", network.Edges[2].ID)
	assert.Equal(t, "MENTIONS", network.Edges[2].Label)
	assert.Equal(t, "n3_n4", network.Edges[3].ID)
}

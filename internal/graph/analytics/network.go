package analytics

import (
	"context"
	"fmt"

	"github.com/nexustrace/backend/internal/domain"
)

// Network materializes the case's relationship graph: the case node, its
// evidence, and every distinct entity reachable through that evidence. Each
// evidence-entity pair contributes exactly one MENTIONS edge no matter how
// many chunks of the file mention the entity.
func (e *Engine) Network(ctx context.Context, userID, caseID string) (domain.Network, error) {
	if err := e.verifyCase(ctx, userID, caseID); err != nil {
		return domain.Network{}, err
	}

	caseNode, err := e.store.CaseNode(ctx, caseID)
	if err != nil {
		return domain.Network{}, err
	}

	network := domain.Network{
		Nodes: []domain.NetworkNode{caseNode},
		Edges: []domain.NetworkEdge{},
	}

	evidenceNodes, evidenceSources, err := e.store.EvidenceNodes(ctx, caseID)
	if err != nil {
		return domain.Network{}, err
	}
	for i, node := range evidenceNodes {
		network.Nodes = append(network.Nodes, node)
		network.Edges = append(network.Edges, domain.NetworkEdge{
			ID:     fmt.Sprintf("%s_%s", evidenceSources[i], node.ID),
			Source: evidenceSources[i],
			Target: node.ID,
			Label:  "HAS_EVIDENCE",
		})
	}

	entityNodes, entitySources, err := e.store.EntityRows(ctx, caseID)
	if err != nil {
		return domain.Network{}, err
	}

	seen := make(map[string]bool, len(network.Nodes))
	for _, node := range network.Nodes {
		seen[node.ID] = true
	}
	for i, node := range entityNodes {
		if !seen[node.ID] {
			network.Nodes = append(network.Nodes, node)
			seen[node.ID] = true
		}
		network.Edges = append(network.Edges, domain.NetworkEdge{
			ID:     fmt.Sprintf("%s_%s", entitySources[i], node.ID),
			Source: entitySources[i],
			Target: node.ID,
			Label:  "MENTIONS",
		})
	}

	return network, nil
}

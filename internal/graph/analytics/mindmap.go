package analytics

import (
	"context"
	"fmt"

	"github.com/nexustrace/backend/internal/domain"
)

// Mindmap builds the 4-level case overview tree: case, evidence files, the
// entity types seen in each file, and the entities of each type. Children
// are deduplicated by label within their parent. A case with no evidence at
// all yields a nil mindmap; callers distinguish that from ErrNotFound.
func (e *Engine) Mindmap(ctx context.Context, userID, caseID string) (*domain.Mindmap, error) {
	if err := e.verifyCase(ctx, userID, caseID); err != nil {
		return nil, err
	}

	caseName, rows, err := e.store.MindmapRows(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if caseName == "" {
		caseName = "Case"
	}
	root := &domain.MindmapNode{
		ID:       "root",
		Label:    caseName,
		Type:     "root",
		Children: []*domain.MindmapNode{},
	}

	type typeGroup struct {
		node     *domain.MindmapNode
		entities map[string]bool
	}
	type evidenceGroup struct {
		node  *domain.MindmapNode
		types map[string]*typeGroup
	}
	evidenceMap := make(map[string]*evidenceGroup)
	hasEvidence := false

	for _, row := range rows {
		if row.Evidence == "" {
			continue
		}
		hasEvidence = true

		ev, ok := evidenceMap[row.Evidence]
		if !ok {
			node := &domain.MindmapNode{
				ID:       "ev_" + row.Evidence,
				Label:    row.Evidence,
				Type:     "evidence",
				Children: []*domain.MindmapNode{},
			}
			root.Children = append(root.Children, node)
			ev = &evidenceGroup{node: node, types: make(map[string]*typeGroup)}
			evidenceMap[row.Evidence] = ev
		}

		if row.EntityType == "" || row.EntityName == "" {
			continue
		}

		tg, ok := ev.types[row.EntityType]
		if !ok {
			node := &domain.MindmapNode{
				ID:       fmt.Sprintf("type_%s_%s", row.Evidence, row.EntityType),
				Label:    row.EntityType,
				Type:     "entity_type",
				Children: []*domain.MindmapNode{},
			}
			ev.node.Children = append(ev.node.Children, node)
			tg = &typeGroup{node: node, entities: make(map[string]bool)}
			ev.types[row.EntityType] = tg
		}

		if !tg.entities[row.EntityName] {
			tg.node.Children = append(tg.node.Children, &domain.MindmapNode{
				ID:       fmt.Sprintf("ent_%s_%s_%s", row.Evidence, row.EntityType, row.EntityName),
				Label:    row.EntityName,
				Type:     "entity",
				Children: []*domain.MindmapNode{},
			})
			tg.entities[row.EntityName] = true
		}
	}

	if !hasEvidence {
		return nil, nil
	}
	return &domain.Mindmap{Root: root}, nil
}

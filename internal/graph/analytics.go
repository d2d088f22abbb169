package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/nexustrace/backend/internal/domain"
)

// TimelineRows returns every timestamped chunk of the case with its entity
// names and source filename, oldest first.
func (s *Store) TimelineRows(ctx context.Context, caseID string) ([]domain.TimelineRow, error) {
	var rows []domain.TimelineRow

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (c:Case {case_id: $case_id})
			MATCH (c)-[:HAS_EVIDENCE]->(e:Evidence)-[:HAS_CHUNK]->(ch:Chunk)
			WHERE ch.timestamp IS NOT NULL
			OPTIONAL MATCH (ch)-[:MENTIONS]->(ent:Entity)
			WITH ch, e, collect(DISTINCT ent.name) AS entity_names
			RETURN ch.chunk_id AS chunk_id, ch.timestamp AS timestamp, ch.text AS text,
			       ch.risk_score AS risk_score, e.filename AS filename, entity_names
			ORDER BY ch.timestamp ASC
		`
		result, err := session.Run(ctx, query, map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to query timeline: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			chunkID, _ := record.Get("chunk_id")
			timestamp, _ := record.Get("timestamp")
			text, _ := record.Get("text")
			risk, _ := record.Get("risk_score")
			filename, _ := record.Get("filename")
			entityNames, _ := record.Get("entity_names")

			rows = append(rows, domain.TimelineRow{
				ChunkID:   asString(chunkID),
				Timestamp: asString(timestamp),
				Text:      asString(text),
				RiskScore: asFloat64(risk),
				Filename:  asString(filename),
				Entities:  asStringSlice(entityNames),
			})
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}
		return nil
	})

	return rows, err
}

// EntityStats aggregates per-entity mention counts, mean chunk risk, last
// occurrence, co-mention connectivity and a sample of mentioning texts. The
// rows come back ordered for lead ranking: mean risk weighted by mentions,
// ties broken by mention count.
func (s *Store) EntityStats(ctx context.Context, caseID string, limit int) ([]domain.EntityStats, error) {
	var stats []domain.EntityStats

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (c:Case {case_id: $case_id})
			MATCH (c)-[:HAS_ENTITY]->(ent:Entity)
			MATCH (ent)<-[:MENTIONS]-(ch:Chunk)
			WITH ent,
			     count(DISTINCT ch) AS mention_count,
			     avg(ch.risk_score) AS avg_risk,
			     max(ch.timestamp) AS last_occurrence,
			     collect(DISTINCT ch.text) AS chunk_texts
			OPTIONAL MATCH (ent)<-[:MENTIONS]-(:Chunk)-[:MENTIONS]->(other:Entity)
			WHERE elementId(other) <> elementId(ent)
			WITH ent, mention_count, avg_risk, last_occurrence, chunk_texts,
			     count(DISTINCT other) AS connection_count,
			     CASE
			        WHEN avg_risk IS NULL THEN 0.3 + (mention_count * 0.05)
			        ELSE avg_risk + (mention_count * 0.02)
			     END AS entity_risk
			WITH ent, mention_count, avg_risk, last_occurrence, chunk_texts, connection_count,
			     CASE WHEN entity_risk > 1.0 THEN 1.0 ELSE entity_risk END AS final_risk
			RETURN elementId(ent) AS entity_id, ent.name AS entity_name, ent.type AS entity_type,
			       mention_count, avg_risk, connection_count, last_occurrence, chunk_texts
			ORDER BY final_risk DESC, mention_count DESC
			LIMIT $limit
		`
		result, err := session.Run(ctx, query, map[string]any{
			"case_id": caseID,
			"limit":   limit,
		})
		if err != nil {
			return fmt.Errorf("failed to query entity stats: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			entityID, _ := record.Get("entity_id")
			name, _ := record.Get("entity_name")
			entityType, _ := record.Get("entity_type")
			mentions, _ := record.Get("mention_count")
			avgRisk, _ := record.Get("avg_risk")
			connections, _ := record.Get("connection_count")
			lastSeen, _ := record.Get("last_occurrence")
			texts, _ := record.Get("chunk_texts")

			st := domain.EntityStats{
				EntityID:        asString(entityID),
				Name:            asString(name),
				Type:            asString(entityType),
				MentionCount:    int(asInt64(mentions)),
				ConnectionCount: int(asInt64(connections)),
				LastSeen:        asString(lastSeen),
				ChunkTexts:      asStringSlice(texts),
			}
			if avgRisk != nil {
				risk := asFloat64(avgRisk)
				st.AvgRisk = &risk
			}
			stats = append(stats, st)
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}
		return nil
	})

	return stats, err
}

func (s *Store) EntitySummaries(ctx context.Context, caseID string) ([]domain.EntitySummary, error) {
	var summaries []domain.EntitySummary

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (c:Case {case_id: $case_id})
			MATCH (c)-[:HAS_EVIDENCE]->(:Evidence)-[:HAS_CHUNK]->(ch:Chunk)-[:MENTIONS]->(ent:Entity)
			RETURN ent.name AS name, ent.type AS type, count(ch) AS mentions
			ORDER BY mentions DESC
		`
		result, err := session.Run(ctx, query, map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to query entities: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			name, _ := record.Get("name")
			entityType, _ := record.Get("type")
			mentions, _ := record.Get("mentions")

			summaries = append(summaries, domain.EntitySummary{
				Name:     asString(name),
				Type:     asString(entityType),
				Mentions: asInt64(mentions),
			})
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}
		return nil
	})

	return summaries, err
}

func (s *Store) EntityDetail(ctx context.Context, entityID string) (domain.EntityDetail, error) {
	var detail domain.EntityDetail
	found := false

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (:Case)-[:HAS_EVIDENCE]->(e:Evidence)-[:HAS_CHUNK]->(ch:Chunk)-[:MENTIONS]->(ent:Entity)
			WHERE elementId(ent) = $entity_id
			RETURN ent.name AS name, ent.type AS type, count(ch) AS mention_count,
			       collect(DISTINCT e.filename) AS evidence_files
		`
		result, err := session.Run(ctx, query, map[string]any{"entity_id": entityID})
		if err != nil {
			return fmt.Errorf("failed to query entity: %w", err)
		}

		if result.Next(ctx) {
			record := result.Record()
			name, _ := record.Get("name")
			if name != nil {
				entityType, _ := record.Get("type")
				mentions, _ := record.Get("mention_count")
				files, _ := record.Get("evidence_files")

				detail = domain.EntityDetail{
					Name:          asString(name),
					Type:          asString(entityType),
					MentionCount:  asInt64(mentions),
					EvidenceFiles: asStringSlice(files),
				}
				found = true
			}
		}
		return result.Err()
	})

	if err != nil {
		return domain.EntityDetail{}, err
	}
	if !found {
		return domain.EntityDetail{}, domain.ErrNotFound
	}
	return detail, nil
}

// CaseNode returns the case as a network node, or ErrNotFound.
func (s *Store) CaseNode(ctx context.Context, caseID string) (domain.NetworkNode, error) {
	var node domain.NetworkNode
	found := false

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (c:Case {case_id: $case_id})
			RETURN elementId(c) AS id, c.name AS label, properties(c) AS props
		`
		result, err := session.Run(ctx, query, map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to query case node: %w", err)
		}

		if result.Next(ctx) {
			record := result.Record()
			id, _ := record.Get("id")
			label, _ := record.Get("label")
			props, _ := record.Get("props")

			node = domain.NetworkNode{
				ID:         asString(id),
				Label:      asString(label),
				Type:       "Case",
				Properties: asProperties(props),
			}
			found = true
		}
		return result.Err()
	})

	if err != nil {
		return domain.NetworkNode{}, err
	}
	if !found {
		return domain.NetworkNode{}, domain.ErrNotFound
	}
	return node, nil
}

// EvidenceNodes returns every evidence node of the case together with the
// elementId of the case anchoring its HAS_EVIDENCE edge.
func (s *Store) EvidenceNodes(ctx context.Context, caseID string) ([]domain.NetworkNode, []string, error) {
	var nodes []domain.NetworkNode
	var sourceIDs []string

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (c:Case {case_id: $case_id})-[:HAS_EVIDENCE]->(e:Evidence)
			RETURN elementId(e) AS id, e.filename AS label, properties(e) AS props,
			       elementId(c) AS source_id
		`
		result, err := session.Run(ctx, query, map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to query evidence nodes: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			id, _ := record.Get("id")
			label, _ := record.Get("label")
			props, _ := record.Get("props")
			sourceID, _ := record.Get("source_id")

			nodes = append(nodes, domain.NetworkNode{
				ID:         asString(id),
				Label:      asString(label),
				Type:       "Evidence",
				Properties: asProperties(props),
			})
			sourceIDs = append(sourceIDs, asString(sourceID))
		}
		return result.Err()
	})

	return nodes, sourceIDs, err
}

// EntityRows returns each distinct (entity, evidence) pairing of the case for
// network materialization.
func (s *Store) EntityRows(ctx context.Context, caseID string) ([]domain.NetworkNode, []string, error) {
	var nodes []domain.NetworkNode
	var sourceIDs []string

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (c:Case {case_id: $case_id})
			MATCH (c)-[:HAS_EVIDENCE]->(e:Evidence)-[:HAS_CHUNK]->(:Chunk)-[:MENTIONS]->(ent:Entity)
			RETURN DISTINCT elementId(ent) AS id, ent.name AS label, properties(ent) AS props,
			       elementId(e) AS source_id
		`
		result, err := session.Run(ctx, query, map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to query entity rows: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			id, _ := record.Get("id")
			label, _ := record.Get("label")
			props, _ := record.Get("props")
			sourceID, _ := record.Get("source_id")

			nodes = append(nodes, domain.NetworkNode{
				ID:         asString(id),
				Label:      asString(label),
				Type:       "Entity",
				Properties: asProperties(props),
			})
			sourceIDs = append(sourceIDs, asString(sourceID))
		}
		return result.Err()
	})

	return nodes, sourceIDs, err
}

// MindmapRows returns the case name and every observed
// (evidence, entity type, entity name) triple. Evidence with no extracted
// entities appears with empty entity fields; a case with no evidence yields a
// single all-empty row. A missing case returns ErrNotFound.
func (s *Store) MindmapRows(ctx context.Context, caseID string) (string, []domain.MindmapRow, error) {
	var caseName string
	var rows []domain.MindmapRow
	found := false

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (c:Case {case_id: $case_id})
			OPTIONAL MATCH (c)-[:HAS_EVIDENCE]->(e:Evidence)
			OPTIONAL MATCH (e)-[:HAS_CHUNK]->(:Chunk)-[:MENTIONS]->(ent:Entity)
			RETURN c.name AS case_name, e.filename AS evidence_name,
			       ent.type AS entity_type, ent.name AS entity_name
		`
		result, err := session.Run(ctx, query, map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to query mindmap rows: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			name, _ := record.Get("case_name")
			evidence, _ := record.Get("evidence_name")
			entityType, _ := record.Get("entity_type")
			entityName, _ := record.Get("entity_name")

			found = true
			caseName = asString(name)
			rows = append(rows, domain.MindmapRow{
				Evidence:   asString(evidence),
				EntityType: asString(entityType),
				EntityName: asString(entityName),
			})
		}
		return result.Err()
	})

	if err != nil {
		return "", nil, err
	}
	if !found {
		return "", nil, domain.ErrNotFound
	}
	return caseName, rows, nil
}

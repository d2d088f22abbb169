package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/pkg/logger"
)

func (s *Store) CreateEvidence(ctx context.Context, userID string, ev domain.Evidence) error {
	return s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case {case_id: $case_id})
			CREATE (e:Evidence {
				evidence_id: $evidence_id,
				filename: $filename,
				file_type: $file_type,
				uploaded_at: timestamp()
			})
			CREATE (c)-[:HAS_EVIDENCE]->(e)
			RETURN e.evidence_id AS evidence_id
		`
		result, err := session.Run(ctx, query, map[string]any{
			"user_id":     userID,
			"case_id":     ev.CaseID,
			"evidence_id": ev.EvidenceID,
			"filename":    ev.Filename,
			"file_type":   ev.FileType,
		})
		if err != nil {
			return fmt.Errorf("failed to create evidence: %w", err)
		}

		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}
			return domain.ErrNotFound
		}

		logger.Debug("Evidence created",
			zap.String("evidence_id", ev.EvidenceID),
			zap.String("case_id", ev.CaseID),
		)
		return nil
	})
}

// StoreChunk persists a chunk with its risk score and embedding in one write,
// then merges its entities. Entity nodes are singletons per (name, type)
// across the whole store; the chunk and the owning case both get an edge to
// each entity.
func (s *Store) StoreChunk(ctx context.Context, caseID string, chunk domain.Chunk, entities []domain.Entity) error {
	return s.execute(ctx, func(session neo4j.SessionWithContext) error {
		chunkQuery := `
			MATCH (c:Case {case_id: $case_id})-[:HAS_EVIDENCE]->(e:Evidence {evidence_id: $evidence_id})
			CREATE (ch:Chunk {
				chunk_id: $chunk_id,
				case_id: $case_id,
				chunk_index: $chunk_index,
				text: $text,
				timestamp: $timestamp,
				risk_score: $risk_score,
				embedding: $embedding
			})
			CREATE (e)-[:HAS_CHUNK]->(ch)
		`
		_, err := session.Run(ctx, chunkQuery, map[string]any{
			"case_id":     caseID,
			"evidence_id": chunk.EvidenceID,
			"chunk_id":    chunk.ChunkID,
			"chunk_index": chunk.Index,
			"text":        chunk.Text,
			"timestamp":   optional(chunk.Timestamp),
			"risk_score":  chunk.RiskScore,
			"embedding":   embeddingParam(chunk.Embedding),
		})
		if err != nil {
			return fmt.Errorf("failed to store chunk: %w", err)
		}

		entityQuery := `
			MATCH (c:Case {case_id: $case_id})
			MATCH (ch:Chunk {chunk_id: $chunk_id})
			WHERE ch.case_id = $case_id
			MERGE (ent:Entity {name: $name, type: $type})
			MERGE (ch)-[:MENTIONS]->(ent)
			MERGE (c)-[:HAS_ENTITY]->(ent)
		`
		for _, ent := range entities {
			_, err := session.Run(ctx, entityQuery, map[string]any{
				"case_id":  caseID,
				"chunk_id": chunk.ChunkID,
				"name":     ent.Name,
				"type":     ent.Type,
			})
			if err != nil {
				return fmt.Errorf("failed to merge entity %q: %w", ent.Name, err)
			}
		}
		return nil
	})
}

func (s *Store) ListEvidence(ctx context.Context, userID, caseID string) ([]domain.Evidence, error) {
	var evidence []domain.Evidence

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case {case_id: $case_id})-[:HAS_EVIDENCE]->(e:Evidence)
			OPTIONAL MATCH (e)-[:HAS_CHUNK]->(chunk:Chunk)
			WITH e, count(chunk) AS chunk_count
			RETURN e.evidence_id AS evidence_id, e.filename AS filename,
			       e.file_type AS file_type, e.uploaded_at AS uploaded_at, chunk_count
			ORDER BY e.uploaded_at DESC
		`
		result, err := session.Run(ctx, query, map[string]any{
			"user_id": userID,
			"case_id": caseID,
		})
		if err != nil {
			return fmt.Errorf("failed to list evidence: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			evidenceID, _ := record.Get("evidence_id")
			filename, _ := record.Get("filename")
			fileType, _ := record.Get("file_type")
			uploadedAt, _ := record.Get("uploaded_at")
			chunkCount, _ := record.Get("chunk_count")

			evidence = append(evidence, domain.Evidence{
				EvidenceID: asString(evidenceID),
				CaseID:     caseID,
				Filename:   asString(filename),
				FileType:   asString(fileType),
				UploadedAt: asInt64(uploadedAt),
				ChunkCount: asInt64(chunkCount),
			})
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}
		return nil
	})

	return evidence, err
}

func (s *Store) GetEvidence(ctx context.Context, userID, evidenceID string) (domain.Evidence, error) {
	var ev domain.Evidence

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case)-[:HAS_EVIDENCE]->(e:Evidence {evidence_id: $evidence_id})
			RETURN e.evidence_id AS evidence_id, c.case_id AS case_id, e.filename AS filename,
			       e.file_type AS file_type, e.uploaded_at AS uploaded_at
		`
		result, err := session.Run(ctx, query, map[string]any{
			"user_id":     userID,
			"evidence_id": evidenceID,
		})
		if err != nil {
			return fmt.Errorf("failed to get evidence: %w", err)
		}

		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}
			return domain.ErrNotFound
		}

		record := result.Record()
		id, _ := record.Get("evidence_id")
		caseID, _ := record.Get("case_id")
		filename, _ := record.Get("filename")
		fileType, _ := record.Get("file_type")
		uploadedAt, _ := record.Get("uploaded_at")

		ev = domain.Evidence{
			EvidenceID: asString(id),
			CaseID:     asString(caseID),
			Filename:   asString(filename),
			FileType:   asString(fileType),
			UploadedAt: asInt64(uploadedAt),
		}
		return nil
	})

	return ev, err
}

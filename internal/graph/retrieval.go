package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/pkg/logger"
)

// SimilaritySearch scores every embedded chunk of the case against the query
// embedding with an in-store cosine computation and returns the top-K above
// the threshold, highest first. The reduce() expressions avoid any dependence
// on a graph-data-science plugin.
func (s *Store) SimilaritySearch(ctx context.Context, userID, caseID string, embedding []float32, threshold float64, topK int) ([]domain.RetrievedChunk, error) {
	var chunks []domain.RetrievedChunk

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case {case_id: $case_id})-[:HAS_EVIDENCE]->(:Evidence)-[:HAS_CHUNK]->(ch:Chunk)
			WHERE ch.embedding IS NOT NULL
			WITH ch,
			     reduce(dot = 0.0, i IN range(0, size(ch.embedding)-1) | dot + ch.embedding[i] * $embedding[i]) AS dotProduct,
			     reduce(norm1 = 0.0, i IN range(0, size(ch.embedding)-1) | norm1 + ch.embedding[i] * ch.embedding[i]) AS norm1,
			     reduce(norm2 = 0.0, i IN range(0, size($embedding)-1) | norm2 + $embedding[i] * $embedding[i]) AS norm2
			WITH ch, dotProduct / (sqrt(norm1) * sqrt(norm2)) AS score
			WHERE score > $threshold
			RETURN ch.chunk_id AS chunk_id, ch.text AS text, score
			ORDER BY score DESC
			LIMIT $top_k
		`
		result, err := session.Run(ctx, query, map[string]any{
			"user_id":   userID,
			"case_id":   caseID,
			"embedding": embeddingParam(embedding),
			"threshold": threshold,
			"top_k":     topK,
		})
		if err != nil {
			return fmt.Errorf("failed to run similarity search: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			chunkID, _ := record.Get("chunk_id")
			text, _ := record.Get("text")
			score, _ := record.Get("score")

			chunks = append(chunks, domain.RetrievedChunk{
				ChunkID: asString(chunkID),
				Text:    asString(text),
				Score:   asFloat64(score),
				Source:  domain.SourceVector,
			})
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	logger.Debug("Similarity search completed",
		zap.String("case_id", caseID),
		zap.Float64("threshold", threshold),
		zap.Int("results", len(chunks)),
	)
	return chunks, nil
}

func (s *Store) CountChunks(ctx context.Context, caseID string) (int64, error) {
	var count int64

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (c:Case {case_id: $case_id})-[:HAS_EVIDENCE]->(:Evidence)-[:HAS_CHUNK]->(ch:Chunk)
			RETURN count(ch) AS total
		`
		result, err := session.Run(ctx, query, map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to count chunks: %w", err)
		}

		if result.Next(ctx) {
			total, _ := result.Record().Get("total")
			count = asInt64(total)
		}
		return result.Err()
	})

	return count, err
}

// ExpandByEntities finds chunks in the same case that share at least one
// mentioned entity with the given chunk set, excluding the set itself, ranked
// by the number of shared entities.
func (s *Store) ExpandByEntities(ctx context.Context, userID, caseID string, chunkIDs []string, limit int) ([]domain.RetrievedChunk, error) {
	var chunks []domain.RetrievedChunk

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case {case_id: $case_id})
			MATCH (start:Chunk)-[:MENTIONS]->(e:Entity)<-[:MENTIONS]-(neighbor:Chunk)
			WHERE start.chunk_id IN $chunk_ids
			  AND neighbor.case_id = $case_id
			  AND NOT neighbor.chunk_id IN $chunk_ids
			RETURN neighbor.chunk_id AS chunk_id, neighbor.text AS text,
			       count(e) AS shared_count, collect(e.name) AS entities
			ORDER BY shared_count DESC
			LIMIT $limit
		`
		result, err := session.Run(ctx, query, map[string]any{
			"user_id":   userID,
			"case_id":   caseID,
			"chunk_ids": chunkIDs,
			"limit":     limit,
		})
		if err != nil {
			return fmt.Errorf("failed to expand by entities: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			chunkID, _ := record.Get("chunk_id")
			text, _ := record.Get("text")
			entities, _ := record.Get("entities")

			chunks = append(chunks, domain.RetrievedChunk{
				ChunkID:        asString(chunkID),
				Text:           asString(text),
				Score:          0, // indirect, no similarity computed
				Source:         domain.SourceGraph,
				SharedEntities: asStringSlice(entities),
			})
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}
		return nil
	})

	return chunks, err
}

// SaveQueryTrace persists the Query node and a scored, sourced RETRIEVED edge
// for every chunk in the retrieval set, so "why this answer" stays
// reconstructable.
func (s *Store) SaveQueryTrace(ctx context.Context, userID, caseID, queryID, question, answer string, chunks []domain.RetrievedChunk) error {
	chunkParams := make([]map[string]any, 0, len(chunks))
	for _, ch := range chunks {
		chunkParams = append(chunkParams, map[string]any{
			"chunk_id": ch.ChunkID,
			"score":    ch.Score,
			"source":   ch.Source,
		})
	}

	return s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case {case_id: $case_id})
			CREATE (q:Query {
				query_id: $query_id,
				text: $text,
				answer: $answer,
				timestamp: timestamp()
			})
			CREATE (c)-[:HAS_QUERY]->(q)
			WITH q
			UNWIND $chunks AS chunk_data
			MATCH (ch:Chunk {chunk_id: chunk_data.chunk_id})
			CREATE (q)-[:RETRIEVED {score: chunk_data.score, source: chunk_data.source}]->(ch)
		`
		_, err := session.Run(ctx, query, map[string]any{
			"user_id":  userID,
			"case_id":  caseID,
			"query_id": queryID,
			"text":     question,
			"answer":   answer,
			"chunks":   chunkParams,
		})
		if err != nil {
			return fmt.Errorf("failed to save query trace: %w", err)
		}
		return nil
	})
}

// GetQueryTrace reconstructs a persisted retrieval trace with the entities
// each retrieved chunk mentions.
func (s *Store) GetQueryTrace(ctx context.Context, queryID string) (domain.Explanation, error) {
	explanation := domain.Explanation{QueryID: queryID}

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (q:Query {query_id: $query_id})-[r:RETRIEVED]->(ch:Chunk)
			OPTIONAL MATCH (ch)-[:MENTIONS]->(e:Entity)
			RETURN q.text AS question, ch.chunk_id AS chunk_id, ch.text AS text,
			       r.score AS score, r.source AS source, collect(e.name) AS entities
		`
		result, err := session.Run(ctx, query, map[string]any{"query_id": queryID})
		if err != nil {
			return fmt.Errorf("failed to get query trace: %w", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			question, _ := record.Get("question")
			chunkID, _ := record.Get("chunk_id")
			text, _ := record.Get("text")
			score, _ := record.Get("score")
			source, _ := record.Get("source")
			entities, _ := record.Get("entities")

			explanation.Question = asString(question)
			explanation.Chunks = append(explanation.Chunks, domain.ExplanationChunk{
				ChunkID:  asString(chunkID),
				Text:     asString(text),
				Score:    asFloat64(score),
				Source:   asString(source),
				Entities: asStringSlice(entities),
			})
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}
		return nil
	})

	return explanation, err
}

// SaveFeedback records a feedback node linking the user to the chunk, then
// nudges the chunk's relevance_boost by 0.1 in the feedback direction. The
// boost is intentionally unclamped.
func (s *Store) SaveFeedback(ctx context.Context, userID string, fb domain.Feedback) error {
	return s.execute(ctx, func(session neo4j.SessionWithContext) error {
		create := `
			MATCH (u:User {id: $user_id})
			MATCH (ch:Chunk {chunk_id: $chunk_id})
			CREATE (f:Feedback {
				type: $type,
				comment: $comment,
				timestamp: timestamp()
			})
			CREATE (u)-[:PROVIDED]->(f)
			CREATE (f)-[:ABOUT]->(ch)
			RETURN ch.chunk_id AS chunk_id
		`
		result, err := session.Run(ctx, create, map[string]any{
			"user_id":  userID,
			"chunk_id": fb.ChunkID,
			"type":     fb.Type,
			"comment":  optional(fb.Comment),
		})
		if err != nil {
			return fmt.Errorf("failed to save feedback: %w", err)
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}
			return domain.ErrNotFound
		}

		delta := 0.1
		if fb.Type == domain.FeedbackNegative {
			delta = -0.1
		}
		boost := `
			MATCH (ch:Chunk {chunk_id: $chunk_id})
			SET ch.relevance_boost = coalesce(ch.relevance_boost, 1.0) + $delta
		`
		_, err = session.Run(ctx, boost, map[string]any{
			"chunk_id": fb.ChunkID,
			"delta":    delta,
		})
		if err != nil {
			return fmt.Errorf("failed to adjust relevance boost: %w", err)
		}

		logger.Debug("Feedback stored",
			zap.String("chunk_id", fb.ChunkID),
			zap.String("type", fb.Type),
		)
		return nil
	})
}

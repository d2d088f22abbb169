package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/pkg/logger"
)

func caseFromRecord(record *neo4j.Record) domain.Case {
	caseID, _ := record.Get("case_id")
	name, _ := record.Get("name")
	description, _ := record.Get("description")
	status, _ := record.Get("status")
	createdAt, _ := record.Get("created_at")

	c := domain.Case{
		CaseID:      asString(caseID),
		Name:        asString(name),
		Description: asString(description),
		Status:      asString(status),
		CreatedAt:   asInt64(createdAt),
	}
	if c.Status == "" {
		c.Status = domain.CaseStatusOpen
	}
	return c
}

const caseReturnClause = `
	RETURN c.case_id AS case_id, c.name AS name, c.description AS description,
	       c.status AS status, c.created_at AS created_at
`

func (s *Store) CreateCase(ctx context.Context, userID string, c domain.Case) (domain.Case, error) {
	var created domain.Case

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MERGE (u:User {id: $user_id})
			CREATE (c:Case {
				case_id: $case_id,
				name: $name,
				description: $description,
				status: $status,
				created_at: timestamp()
			})
			MERGE (u)-[:CREATED]->(c)
		` + caseReturnClause

		result, err := session.Run(ctx, query, map[string]any{
			"user_id":     userID,
			"case_id":     c.CaseID,
			"name":        c.Name,
			"description": c.Description,
			"status":      c.Status,
		})
		if err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}

		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}
			return fmt.Errorf("%w: case creation returned no record", domain.ErrStore)
		}

		created = caseFromRecord(result.Record())
		return nil
	})

	if err != nil {
		return domain.Case{}, err
	}

	logger.Info("Case created", zap.String("case_id", created.CaseID), zap.String("user_id", userID))
	return created, nil
}

func (s *Store) ListCases(ctx context.Context, userID string) ([]domain.Case, error) {
	var cases []domain.Case

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case)
		` + caseReturnClause + `
			ORDER BY c.created_at DESC
		`
		result, err := session.Run(ctx, query, map[string]any{"user_id": userID})
		if err != nil {
			return fmt.Errorf("failed to list cases: %w", err)
		}

		for result.Next(ctx) {
			cases = append(cases, caseFromRecord(result.Record()))
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}
		return nil
	})

	return cases, err
}

func (s *Store) GetCase(ctx context.Context, userID, caseID string) (domain.Case, error) {
	var c domain.Case

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case {case_id: $case_id})
		` + caseReturnClause

		result, err := session.Run(ctx, query, map[string]any{
			"user_id": userID,
			"case_id": caseID,
		})
		if err != nil {
			return fmt.Errorf("failed to get case: %w", err)
		}

		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}
			return domain.ErrNotFound
		}

		c = caseFromRecord(result.Record())
		return nil
	})

	return c, err
}

// UpdateCase applies a patch over the fixed set of updatable fields. The SET
// list is static; nil patch fields pass a null parameter and coalesce() keeps
// the stored value.
func (s *Store) UpdateCase(ctx context.Context, userID, caseID string, patch domain.CasePatch) (domain.Case, error) {
	var updated domain.Case

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case {case_id: $case_id})
			SET c.name = coalesce($name, c.name),
			    c.description = coalesce($description, c.description),
			    c.status = coalesce($status, c.status)
		` + caseReturnClause

		result, err := session.Run(ctx, query, map[string]any{
			"user_id":     userID,
			"case_id":     caseID,
			"name":        optionalPtr(patch.Name),
			"description": optionalPtr(patch.Description),
			"status":      optionalPtr(patch.Status),
		})
		if err != nil {
			return fmt.Errorf("failed to update case: %w", err)
		}

		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}
			return domain.ErrNotFound
		}

		updated = caseFromRecord(result.Record())
		return nil
	})

	return updated, err
}

// DeleteCase removes the case node and its relationships only. Evidence and
// chunks are left in place, detached from any case.
func (s *Store) DeleteCase(ctx context.Context, userID, caseID string) error {
	return s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})-[:CREATED]->(c:Case {case_id: $case_id})
			DETACH DELETE c
		`
		_, err := session.Run(ctx, query, map[string]any{
			"user_id": userID,
			"case_id": caseID,
		})
		if err != nil {
			return fmt.Errorf("failed to delete case: %w", err)
		}

		logger.Info("Case deleted", zap.String("case_id", caseID), zap.String("user_id", userID))
		return nil
	})
}

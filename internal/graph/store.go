package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/nexustrace/backend/pkg/circuitbreaker"
	"github.com/nexustrace/backend/pkg/logger"
	"github.com/nexustrace/backend/pkg/retry"
)

// Store is the Neo4j-backed knowledge graph. It owns the schema (User, Case,
// Evidence, Chunk, Entity, Query, Feedback nodes and their relationships) and
// every query pattern the services need: merge/create writes, aggregation
// reads, and the reduce()-based cosine similarity traversal. Consumers depend
// on narrow interfaces satisfied by this type, so the backing engine stays
// swappable and tests can use fakes.
type Store struct {
	driver      neo4j.DriverWithContext
	database    string
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewStore(uri, username, password, database string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(username, password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify connectivity: %w", err)
	}

	cb := circuitbreaker.New("neo4j", circuitbreaker.Config{
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          20 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   200 * time.Millisecond,
		MaxDelay:       3 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("Graph store initialized", zap.String("uri", uri))

	return &Store{
		driver:      driver,
		database:    database,
		cb:          cb,
		retryConfig: retryConfig,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Store) execute(ctx context.Context, operation func(neo4j.SessionWithContext) error) error {
	return s.cb.Execute(ctx, func() error {
		return retry.Do(ctx, s.retryConfig, func() error {
			session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
			defer session.Close(ctx)
			return operation(session)
		})
	})
}

// Value coercion helpers for driver records. The driver returns int64 for
// Cypher integers and []any for lists.

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt64(v any) int64 {
	if i, ok := v.(int64); ok {
		return i
	}
	return 0
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asProperties(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func embeddingParam(embedding []float32) []float64 {
	out := make([]float64, len(embedding))
	for i, v := range embedding {
		out[i] = float64(v)
	}
	return out
}

// optional turns "" into a null parameter so absent values are stored as
// missing properties rather than empty strings.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

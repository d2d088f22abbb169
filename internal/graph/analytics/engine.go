// Package analytics implements the read-only investigation views computed
// over the case graph: chronological timelines, risk-ranked leads, the
// relationship network and the hierarchical mindmap.
package analytics

import (
	"context"
	"time"

	"github.com/nexustrace/backend/internal/domain"
)

const (
	leadLimit       = 100
	descriptionMax  = 200
	textSampleSize  = 10
	timestampLayout = "2006-01-02T15:04:05"
)

// GraphReader is the slice of the graph store the engine consumes.
type GraphReader interface {
	GetCase(ctx context.Context, userID, caseID string) (domain.Case, error)
	TimelineRows(ctx context.Context, caseID string) ([]domain.TimelineRow, error)
	EntityStats(ctx context.Context, caseID string, limit int) ([]domain.EntityStats, error)
	EntitySummaries(ctx context.Context, caseID string) ([]domain.EntitySummary, error)
	EntityDetail(ctx context.Context, entityID string) (domain.EntityDetail, error)
	CaseNode(ctx context.Context, caseID string) (domain.NetworkNode, error)
	EvidenceNodes(ctx context.Context, caseID string) ([]domain.NetworkNode, []string, error)
	EntityRows(ctx context.Context, caseID string) ([]domain.NetworkNode, []string, error)
	MindmapRows(ctx context.Context, caseID string) (string, []domain.MindmapRow, error)
}

type Engine struct {
	store GraphReader
	now   func() time.Time
}

func NewEngine(store GraphReader) *Engine {
	return &Engine{store: store, now: time.Now}
}

// verifyCase gates every case-scoped view on the requesting user's ownership.
func (e *Engine) verifyCase(ctx context.Context, userID, caseID string) error {
	_, err := e.store.GetCase(ctx, userID, caseID)
	return err
}

// Entities lists the case's entities by descending mention count.
func (e *Engine) Entities(ctx context.Context, userID, caseID string) ([]domain.EntitySummary, error) {
	if err := e.verifyCase(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return e.store.EntitySummaries(ctx, caseID)
}

func (e *Engine) Entity(ctx context.Context, entityID string) (domain.EntityDetail, error) {
	return e.store.EntityDetail(ctx, entityID)
}

// normalizeTimestamp fills an absent timestamp with the current instant so
// every view row carries a usable ISO value.
func (e *Engine) normalizeTimestamp(ts string) string {
	if ts == "" {
		return e.now().UTC().Format(timestampLayout) + "Z"
	}
	return ts
}

package feedback

import (
	"context"
	"fmt"

	"github.com/nexustrace/backend/internal/domain"
)

// FeedbackStore records feedback and its relevance adjustment.
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, userID string, fb domain.Feedback) error
}

type Service struct {
	store FeedbackStore
}

func NewService(store FeedbackStore) *Service {
	return &Service{store: store}
}

// Submit validates and stores one piece of chunk feedback.
func (s *Service) Submit(ctx context.Context, userID string, fb domain.Feedback) error {
	if fb.ChunkID == "" {
		return fmt.Errorf("%w: chunk_id is required", domain.ErrValidation)
	}
	if fb.Type != domain.FeedbackPositive && fb.Type != domain.FeedbackNegative {
		return fmt.Errorf("%w: feedback_type must be positive or negative", domain.ErrValidation)
	}
	return s.store.SaveFeedback(ctx, userID, fb)
}

package cases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nexustrace/backend/internal/domain"
)

// CaseStore is the slice of the graph store case management consumes.
type CaseStore interface {
	CreateCase(ctx context.Context, userID string, c domain.Case) (domain.Case, error)
	ListCases(ctx context.Context, userID string) ([]domain.Case, error)
	GetCase(ctx context.Context, userID, caseID string) (domain.Case, error)
	UpdateCase(ctx context.Context, userID, caseID string, patch domain.CasePatch) (domain.Case, error)
	DeleteCase(ctx context.Context, userID, caseID string) error
}

var validStatuses = map[string]bool{
	domain.CaseStatusOpen:       true,
	domain.CaseStatusInProgress: true,
	domain.CaseStatusClosed:     true,
}

type Service struct {
	store CaseStore
}

func NewService(store CaseStore) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, userID, name, description string) (domain.Case, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Case{}, fmt.Errorf("%w: case name is required", domain.ErrValidation)
	}

	c := domain.Case{
		CaseID:      uuid.New().String(),
		Name:        name,
		Description: description,
		Status:      domain.CaseStatusOpen,
	}
	return s.store.CreateCase(ctx, userID, c)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Case, error) {
	return s.store.ListCases(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, caseID string) (domain.Case, error) {
	return s.store.GetCase(ctx, userID, caseID)
}

// Update applies a partial case update. Only the fields present in the patch
// change; a patch status outside the known set is rejected.
func (s *Service) Update(ctx context.Context, userID, caseID string, patch domain.CasePatch) (domain.Case, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Case{}, fmt.Errorf("%w: case name cannot be empty", domain.ErrValidation)
	}
	if patch.Status != nil && !validStatuses[*patch.Status] {
		return domain.Case{}, fmt.Errorf("%w: unknown case status %q", domain.ErrValidation, *patch.Status)
	}
	return s.store.UpdateCase(ctx, userID, caseID, patch)
}

// Delete detaches and removes the case node. Evidence and chunks are left in
// place.
func (s *Service) Delete(ctx context.Context, userID, caseID string) error {
	if _, err := s.store.GetCase(ctx, userID, caseID); err != nil {
		return err
	}
	return s.store.DeleteCase(ctx, userID, caseID)
}

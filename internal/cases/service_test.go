package cases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexustrace/backend/internal/domain"
)

type fakeCaseStore struct {
	created domain.Case
	updated domain.CasePatch
	deleted string
	getErr  error
}

func (f *fakeCaseStore) CreateCase(ctx context.Context, userID string, c domain.Case) (domain.Case, error) {
	f.created = c
	return c, nil
}

func (f *fakeCaseStore) ListCases(ctx context.Context, userID string) ([]domain.Case, error) {
	return nil, nil
}

func (f *fakeCaseStore) GetCase(ctx context.Context, userID, caseID string) (domain.Case, error) {
	if f.getErr != nil {
		return domain.Case{}, f.getErr
	}
	return domain.Case{CaseID: caseID}, nil
}

func (f *fakeCaseStore) UpdateCase(ctx context.Context, userID, caseID string, patch domain.CasePatch) (domain.Case, error) {
	f.updated = patch
	return domain.Case{CaseID: caseID}, nil
}

func (f *fakeCaseStore) DeleteCase(ctx context.Context, userID, caseID string) error {
	f.deleted = caseID
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreateRequiresName(t *testing.T) {
	s := NewService(&fakeCaseStore{})
	_, err := s.Create(context.Background(), "u1", "   ", "desc")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateDefaultsToOpen(t *testing.T) {
	store := &fakeCaseStore{}
	s := NewService(store)

	created, err := s.Create(context.Background(), "u1", "Insider Threat", "desc")
	require.NoError(t, err)
	assert.Equal(t, domain.CaseStatusOpen, created.Status)
	assert.NotEmpty(t, created.CaseID)
	assert.Equal(t, "Insider Threat", store.created.Name)
}

func TestUpdateValidatesPatch(t *testing.T) {
	s := NewService(&fakeCaseStore{})

	_, err := s.Update(context.Background(), "u1", "c1", domain.CasePatch{Name: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Update(context.Background(), "u1", "c1", domain.CasePatch{Status: strPtr("archived")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdatePassesPartialPatch(t *testing.T) {
	store := &fakeCaseStore{}
	s := NewService(store)

	_, err := s.Update(context.Background(), "u1", "c1", domain.CasePatch{Status: strPtr(domain.CaseStatusClosed)})
	require.NoError(t, err)
	assert.Nil(t, store.updated.Name)
	assert.Equal(t, domain.CaseStatusClosed, *store.updated.Status)
}

func TestDeleteChecksOwnershipFirst(t *testing.T) {
	store := &fakeCaseStore{getErr: domain.ErrNotFound}
	s := NewService(store)

	err := s.Delete(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.deleted)
}

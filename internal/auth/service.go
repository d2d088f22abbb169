package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexustrace/backend/internal/domain"
)

// UserStore is the slice of the graph store auth consumes.
type UserStore interface {
	CreateUser(ctx context.Context, user domain.User, passwordHash string) error
	GetUserByUsername(ctx context.Context, username string) (domain.User, string, error)
	GetUserByID(ctx context.Context, userID string) (domain.User, error)
}

type Service struct {
	store  UserStore
	issuer *TokenIssuer
}

func NewService(store UserStore, issuer *TokenIssuer) *Service {
	return &Service{store: store, issuer: issuer}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
	}
	if err := s.store.CreateUser(ctx, user, string(hash)); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login verifies the credentials and issues an access token. Wrong username
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, hash, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%w: incorrect username or password", domain.ErrNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", fmt.Errorf("%w: incorrect username or password", domain.ErrNotFound)
	}
	return s.issuer.Issue(user)
}

func (s *Service) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/nexustrace/backend/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, user domain.User, passwordHash string) error {
	return s.execute(ctx, func(session neo4j.SessionWithContext) error {
		check := `MATCH (u:User {username: $username}) RETURN u.id`
		result, err := session.Run(ctx, check, map[string]any{"username": user.Username})
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if result.Next(ctx) {
			return fmt.Errorf("%w: username already registered", domain.ErrValidation)
		}
		if err := result.Err(); err != nil {
			return fmt.Errorf("error iterating results: %w", err)
		}

		create := `
			CREATE (u:User {
				id: $id,
				username: $username,
				email: $email,
				password_hash: $password_hash,
				created_at: timestamp()
			})
		`
		_, err = session.Run(ctx, create, map[string]any{
			"id":            user.ID,
			"username":      user.Username,
			"email":         user.Email,
			"password_hash": passwordHash,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

// GetUserByUsername returns the user and its stored password hash.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, string, error) {
	var user domain.User
	var hash string

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {username: $username})
			RETURN u.id AS id, u.username AS username, u.email AS email, u.password_hash AS password_hash
		`
		result, err := session.Run(ctx, query, map[string]any{"username": username})
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}
			return domain.ErrNotFound
		}

		record := result.Record()
		id, _ := record.Get("id")
		name, _ := record.Get("username")
		email, _ := record.Get("email")
		passwordHash, _ := record.Get("password_hash")

		user = domain.User{ID: asString(id), Username: asString(name), Email: asString(email)}
		hash = asString(passwordHash)
		return nil
	})

	return user, hash, err
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	var user domain.User

	err := s.execute(ctx, func(session neo4j.SessionWithContext) error {
		query := `
			MATCH (u:User {id: $user_id})
			RETURN u.id AS id, u.username AS username, u.email AS email
		`
		result, err := session.Run(ctx, query, map[string]any{"user_id": userID})
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}
			return domain.ErrNotFound
		}

		record := result.Record()
		id, _ := record.Get("id")
		name, _ := record.Get("username")
		email, _ := record.Get("email")

		user = domain.User{ID: asString(id), Username: asString(name), Email: asString(email)}
		return nil
	})

	return user, err
}

package users

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	Create(ctx context.Context, in CreateUserRequest) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context, req ListUsersRequest) ([]User, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserRequest) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
}

// Service handles user business logic, chiefly the email uniqueness rule.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateUser creates a user after probing email uniqueness. The probe only
// exists to produce a friendly conflict; a concurrent duplicate still fails
// at the store's unique index and surfaces as the same ErrEmailExists.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (User, error) {
	exists, err := s.repo.EmailExists(ctx, in.Email, nil)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, ErrEmailExists
	}

	user, err := s.repo.Create(ctx, in)
	if err != nil {
		return User{}, err
	}
	s.logger.Info("user created", slog.String("id", user.ID.String()), slog.String("email", user.Email))
	return user, nil
}

// GetUser returns the user or ErrNotFound.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns a page of users plus the total matching the filter.
func (s *Service) ListUsers(ctx context.Context, req ListUsersRequest) ([]User, int, error) {
	return s.repo.List(ctx, req)
}

// UpdateUser applies a partial update. Zero fields is rejected with
// ErrNoFields; a changed email is probed for uniqueness excluding the
// user's own row.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserRequest) (User, error) {
	if in.Empty() {
		return User{}, ErrNoFields
	}

	if in.Email != nil {
		exists, err := s.repo.EmailExists(ctx, *in.Email, &id)
		if err != nil {
			return User{}, err
		}
		if exists {
			return User{}, ErrEmailExists
		}
	}

	user, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return User{}, err
	}
	s.logger.Info("user updated", slog.String("id", user.ID.String()))
	return user, nil
}

// DeleteUser removes the user, returning ErrNotFound when the id matched no
// row. Repeated deletes of the same id stay ErrNotFound; absence is a normal
// outcome, not a fault.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("user deleted", slog.String("id", id.String()))
	return nil
}

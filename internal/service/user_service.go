package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.UserRepository
	logger *zerolog.Logger
}

func NewUserService(repo domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NotFound(domain.EntityUser, id)
	}
	return user, nil
}

func (s *UserService) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.UserExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return ok, nil
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	created := &models.User{
		Name:  strings.TrimSpace(user.Name),
		Email: strings.TrimSpace(user.Email),
	}
	if err := s.repo.CreateUser(ctx, created); err != nil {
		return nil, s.mapWriteError(err, created)
	}

	s.logger.Info().Int64("user_id", created.ID).Msg("User created")
	return created, nil
}

// UpdateUser applies the non-blank fields of upd.
func (s *UserService) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil && strings.TrimSpace(*upd.Email) != "" {
		user.Email = strings.TrimSpace(*upd.Email)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, s.mapWriteError(err, user)
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return domain.NotFound(domain.EntityUser, id)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) mapWriteError(err error, user *models.User) error {
	switch {
	case errors.Is(err, database.ErrDuplicateEmail):
		return fmt.Errorf("%w: email %s is already registered", domain.ErrConflict, user.Email)
	case errors.Is(err, database.ErrNotFound):
		return domain.NotFound(domain.EntityUser, user.ID)
	default:
		return fmt.Errorf("failed to save user: %w", err)
	}
}

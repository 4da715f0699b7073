package service

import (
	"context"

	"backoffice-service/internal/entity"
)

// UserService registers the users orders are placed for.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) CreateUser(ctx context.Context, name string) (*entity.User, error) {
	name, err := normalizeName("user", name)
	if err != nil {
		return nil, err
	}

	createdUser, err := s.repo.CreateUser(ctx, &entity.User{Name: name})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return createdUser, nil
}

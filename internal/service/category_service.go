package service

import (
	"context"

	"backoffice-service/internal/entity"
)

type CategoryService struct {
	repo CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService.
func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, input entity.CategoryInput) (*entity.Category, error) {
	name, err := normalizeName("category", input.Name)
	if err != nil {
		return nil, err
	}

	category, err := s.repo.CreateCategory(ctx, &entity.Category{Name: name})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating category")
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing categories")
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id int) (*entity.Category, error) {
	return s.repo.GetCategoryByID(ctx, id)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int, input entity.CategoryInput) (*entity.Category, error) {
	name, err := normalizeName("category", input.Name)
	if err != nil {
		return nil, err
	}

	category, err := s.repo.UpdateCategory(ctx, &entity.Category{ID: id, Name: name})
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating category %d", id)
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting category %d", id)
		return err
	}
	return nil
}

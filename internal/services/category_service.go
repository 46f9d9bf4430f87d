package services

import (
	"errors"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// CategoryService handles category lookup and the sentinel fallback rule.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// Resolve returns the category with the given name, falling back to the
// sentinel "other" category (0% discount) when the name is unknown or empty.
// Only a missing record triggers the fallback; store failures propagate.
func (s *CategoryService) Resolve(name string) (models.Category, error) {
	if name != "" {
		category, err := s.repo.GetByName(name)
		if err == nil {
			return *category, nil
		}
		var notFound *models.CategoryNotFoundError
		if !errors.As(err, &notFound) {
			return models.Category{}, err
		}
	}

	fallback, err := s.repo.GetByName(models.FallbackCategoryName)
	if err != nil {
		return models.Category{}, fmt.Errorf("fallback category missing: %w", err)
	}
	return *fallback, nil
}

package repositories

import (
	"catalog/internal/models"
)

// CategoryRepository defines the interface for category data access.
// GetByName returns *models.CategoryNotFoundError for unknown names.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByName(name string) (*models.Category, error)
	Save(category *models.Category) error
}

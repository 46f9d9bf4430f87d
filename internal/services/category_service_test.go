package services_test

import (
	"fmt"
	"testing"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(name string) (*models.Category, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

var otherCategory = models.Category{Name: models.FallbackCategoryName, Discount: 0.0}

func TestCategoryService_Resolve_KnownName(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	service := services.NewCategoryService(mockRepo)

	toys := &models.Category{Name: "toys", Discount: 20.0}
	mockRepo.On("GetByName", "toys").Return(toys, nil).Once()

	category, err := service.Resolve("toys")

	assert.NoError(t, err)
	assert.Equal(t, *toys, category)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_Resolve_UnknownNameFallsBack(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	service := services.NewCategoryService(mockRepo)

	mockRepo.On("GetByName", "nonexistent").Return(nil, &models.CategoryNotFoundError{Name: "nonexistent"}).Once()
	mockRepo.On("GetByName", models.FallbackCategoryName).Return(&otherCategory, nil).Once()

	category, err := service.Resolve("nonexistent")

	assert.NoError(t, err)
	assert.Equal(t, otherCategory, category)
	assert.Zero(t, category.Discount)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_Resolve_EmptyNameFallsBack(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	service := services.NewCategoryService(mockRepo)

	mockRepo.On("GetByName", models.FallbackCategoryName).Return(&otherCategory, nil).Once()

	category, err := service.Resolve("")

	assert.NoError(t, err)
	assert.Equal(t, otherCategory, category)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_Resolve_StoreErrorPropagates(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	service := services.NewCategoryService(mockRepo)

	// A store failure is not a missing record; it must not trigger the
	// fallback rule.
	mockRepo.On("GetByName", "toys").Return(nil, fmt.Errorf("database error")).Once()

	_, err := service.Resolve("toys")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_Resolve_MissingFallbackFails(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	service := services.NewCategoryService(mockRepo)

	mockRepo.On("GetByName", "nonexistent").Return(nil, &models.CategoryNotFoundError{Name: "nonexistent"}).Once()
	mockRepo.On("GetByName", models.FallbackCategoryName).Return(nil, &models.CategoryNotFoundError{Name: models.FallbackCategoryName}).Once()

	_, err := service.Resolve("nonexistent")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fallback category missing")
	mockRepo.AssertExpectations(t)
}

package services_test

import (
	"fmt"
	"testing"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	user := &models.User{
		Username: "operator",
		Email:    "operator@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", "operator").Return(nil, fmt.Errorf("user not found")).Once()
	mockRepo.On("GetByEmail", "operator@example.com").Return(nil, fmt.Errorf("user not found")).Once()
	mockRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		// Password must be hashed before it is stored.
		return u.Password != "password123" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")) == nil
	})).Return(nil).Once()

	err := service.RegisterUser(user)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	existing := &models.User{Username: "operator"}
	mockRepo.On("GetByUsername", "operator").Return(existing, nil).Once()

	err := service.RegisterUser(&models.User{Username: "operator", Email: "new@example.com", Password: "pw123456"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{ID: "user-1", Username: "operator", Password: string(hashed)}

	// Successful login returns a token whose claims validate.
	mockRepo.On("GetByUsername", "operator").Return(user, nil).Once()
	token, err := service.LoginUser("operator", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "operator", claims["username"])

	// Wrong password is rejected without revealing which part failed.
	mockRepo.On("GetByUsername", "operator").Return(user, nil).Once()
	_, err = service.LoginUser("operator", "wrong")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	// Unknown username gets the same error.
	mockRepo.On("GetByUsername", "ghost").Return(nil, fmt.Errorf("user not found")).Once()
	_, err = service.LoginUser("ghost", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	service := services.NewAuthService(new(MockUserRepository), "test_secret")

	_, err := service.ValidateToken("not.a.token")

	assert.Error(t, err)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	mockRepo := new(MockUserRepository)
	issuer := services.NewAuthService(mockRepo, "secret_a")
	verifier := services.NewAuthService(mockRepo, "secret_b")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Username: "operator", Password: string(hashed)}
	mockRepo.On("GetByUsername", "operator").Return(user, nil).Once()

	token, err := issuer.LoginUser("operator", "password123")
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

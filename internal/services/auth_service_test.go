package services_test

import (
	"fmt"
	"testing"

	"fleuria/internal/models"
	"fleuria/internal/services"

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

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

const testJWTSecret = "test-secret"

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	user := &models.User{Email: "maria@example.com", Password: "plaintext", FullName: "Maria Santos"}

	mockRepo.On("GetByEmail", "maria@example.com").Return(nil, fmt.Errorf("user not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := service.RegisterUser(user)

	assert.NoError(t, err)
	// Password is hashed and the role defaults to customer.
	assert.NotEqual(t, "plaintext", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("plaintext")))
	assert.Equal(t, models.RoleCustomer, user.Role)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	existing := &models.User{ID: "user-1", Email: "maria@example.com"}
	mockRepo.On("GetByEmail", "maria@example.com").Return(existing, nil).Once()

	err := service.RegisterUser(&models.User{Email: "maria@example.com", Password: "pw"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{ID: "user-1", Email: "maria@example.com", Password: string(hashed), Role: models.RoleCustomer}

	// Successful login yields a token carrying the identity claims.
	mockRepo.On("GetByEmail", "maria@example.com").Return(user, nil).Once()
	token, err := service.LoginUser("maria@example.com", "correct-horse")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "maria@example.com", claims["email"])
	assert.Equal(t, models.RoleCustomer, claims["role"])

	// Wrong password and unknown email both report the same generic error.
	mockRepo.On("GetByEmail", "maria@example.com").Return(user, nil).Once()
	_, err = service.LoginUser("maria@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, fmt.Errorf("user not found")).Once()
	_, err = service.LoginUser("nobody@example.com", "whatever")
	assert.EqualError(t, err, "invalid credentials")

	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	_, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret is rejected.
	other := services.NewAuthService(mockRepo, "other-secret")
	hashed, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Email: "maria@example.com", Password: string(hashed)}
	mockRepo.On("GetByEmail", "maria@example.com").Return(user, nil).Once()
	foreignToken, err := other.LoginUser("maria@example.com", "pw")
	assert.NoError(t, err)

	_, err = service.ValidateToken(foreignToken)
	assert.Error(t, err)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	stored := &models.User{ID: "user-1", Email: "maria@example.com", FullName: "Maria", Phone: "0917", Address: "Old St"}
	mockRepo.On("GetByID", "user-1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	// Empty fields are left untouched.
	updated, err := service.UpdateProfile("user-1", "Maria Santos", "", "12 Sampaguita St")

	assert.NoError(t, err)
	assert.Equal(t, "Maria Santos", updated.FullName)
	assert.Equal(t, "0917", updated.Phone)
	assert.Equal(t, "12 Sampaguita St", updated.Address)
	mockRepo.AssertExpectations(t)
}

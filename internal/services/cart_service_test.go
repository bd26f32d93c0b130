package services_test

import (
	"fmt"
	"testing"

	"fleuria/internal/models"
	"fleuria/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartRepository) Upsert(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateQuantity(userID, productID string, quantity int) error {
	args := m.Called(userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(userID, productID string) error {
	args := m.Called(userID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteAll(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

var roseBouquet = models.Product{ID: "prod-rose", Name: "Rose Bouquet", Price: 899}

func TestCartService_AddAccumulatesQuantities(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	// Guest session: no remote mirroring at all.
	service.Add("guest-1", false, roseBouquet, 2)
	service.Add("guest-1", false, roseBouquet, 3)

	lines := service.Lines("guest-1")
	assert.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	mockCartRepo.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestCartService_AddMirrorsForAuthenticatedUsers(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	mockCartRepo.On("Upsert", &models.CartItem{UserID: "user-1", ProductID: "prod-rose", Quantity: 2}).Return(nil).Once()

	service.Add("user-1", true, roseBouquet, 2)

	assert.Len(t, service.Lines("user-1"), 1)
	mockCartRepo.AssertExpectations(t)
}

func TestCartService_AddSwallowsMirrorFailure(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	mockCartRepo.On("Upsert", mock.AnythingOfType("*models.CartItem")).
		Return(fmt.Errorf("store unreachable")).Once()

	// The remote failure must not roll back the local state.
	service.Add("user-1", true, roseBouquet, 1)

	lines := service.Lines("user-1")
	assert.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	mockCartRepo.AssertExpectations(t)
}

func TestCartService_UpdateQuantityRejectsBelowOne(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	service.Add("guest-1", false, roseBouquet, 2)
	before := service.Lines("guest-1")

	service.UpdateQuantity("guest-1", false, "prod-rose", 0)
	service.UpdateQuantity("guest-1", false, "prod-rose", -5)

	assert.Equal(t, before, service.Lines("guest-1"))
}

func TestCartService_UpdateQuantityMirrors(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	mockCartRepo.On("Upsert", mock.AnythingOfType("*models.CartItem")).Return(nil).Once()
	mockCartRepo.On("UpdateQuantity", "user-1", "prod-rose", 7).Return(nil).Once()

	service.Add("user-1", true, roseBouquet, 2)
	service.UpdateQuantity("user-1", true, "prod-rose", 7)

	lines := service.Lines("user-1")
	assert.Equal(t, 7, lines[0].Quantity)
	mockCartRepo.AssertExpectations(t)
}

func TestCartService_RemoveIsIdempotent(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	mockCartRepo.On("Delete", "user-1", "prod-missing").Return(nil).Twice()

	// Removing an absent product must not panic and must leave the cart as is.
	service.Remove("user-1", true, "prod-missing")
	service.Remove("user-1", true, "prod-missing")

	assert.Empty(t, service.Lines("user-1"))
	mockCartRepo.AssertExpectations(t)
}

func TestCartService_LoadJoinsCatalogAndDropsMissingProducts(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	remote := []models.CartItem{
		{UserID: "user-1", ProductID: "prod-rose", Quantity: 2},
		{UserID: "user-1", ProductID: "prod-discontinued", Quantity: 1},
	}
	mockCartRepo.On("GetByUser", "user-1").Return(remote, nil).Once()
	// The catalog only knows one of the two products; the other row is dropped.
	mockProductRepo.On("GetByIDs", []string{"prod-rose", "prod-discontinued"}).
		Return([]models.Product{roseBouquet}, nil).Once()

	lines := service.Load("user-1")

	assert.Len(t, lines, 1)
	assert.Equal(t, "prod-rose", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	mockCartRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestCartService_LoadFailureYieldsEmptyCart(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	mockCartRepo.On("GetByUser", "user-1").Return(nil, fmt.Errorf("store unreachable")).Once()

	// A fetch failure must never block sign-in.
	lines := service.Load("user-1")

	assert.Empty(t, lines)
	mockCartRepo.AssertExpectations(t)
}

func TestCartService_ClearEmptiesLocalAndRemote(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewCartService(mockCartRepo, mockProductRepo)

	mockCartRepo.On("Upsert", mock.AnythingOfType("*models.CartItem")).Return(nil).Once()
	mockCartRepo.On("DeleteAll", "user-1").Return(nil).Once()

	service.Add("user-1", true, roseBouquet, 2)
	service.Clear("user-1", true)

	assert.Empty(t, service.Lines("user-1"))
	mockCartRepo.AssertExpectations(t)
}

package repositories

import (
	"fmt"
	"sync"

	"fleuria/internal/models"

	"github.com/google/uuid"
)

// MockDriverRepository is an in-memory implementation of DriverRepository.
type MockDriverRepository struct {
	drivers map[string]models.Driver
	mu      sync.RWMutex
}

// NewMockDriverRepository creates a new instance of MockDriverRepository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]models.Driver),
	}
}

// GetAll returns all drivers.
func (r *MockDriverRepository) GetAll() ([]models.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	driverList := make([]models.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		driverList = append(driverList, d)
	}
	return driverList, nil
}

// GetByID returns a driver by its ID.
func (r *MockDriverRepository) GetByID(id string) (*models.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	driver, ok := r.drivers[id]
	if !ok {
		return nil, fmt.Errorf("driver with ID %s not found", id)
	}
	return &driver, nil
}

// Create adds a new driver.
func (r *MockDriverRepository) Create(driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if driver.ID == "" {
		driver.ID = uuid.New().String()
	}
	if driver.Status == "" {
		driver.Status = models.DriverActive
	}
	r.drivers[driver.ID] = *driver
	return nil
}

// Update modifies an existing driver.
func (r *MockDriverRepository) Update(driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.drivers[driver.ID]
	if !ok {
		return fmt.Errorf("driver with ID %s not found for update", driver.ID)
	}
	r.drivers[driver.ID] = *driver
	return nil
}

// Delete removes a driver by its ID.
func (r *MockDriverRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.drivers[id]
	if !ok {
		return fmt.Errorf("driver with ID %s not found for deletion", id)
	}
	delete(r.drivers, id)
	return nil
}

package services

import (
	"fleuria/internal/models"
	"fleuria/internal/repositories"
)

// DriverService handles the driver roster used for order assignment.
type DriverService struct {
	repo repositories.DriverRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(repo repositories.DriverRepository) *DriverService {
	return &DriverService{
		repo: repo,
	}
}

// GetAllDrivers retrieves all drivers for the assignment dropdown.
func (s *DriverService) GetAllDrivers() ([]models.Driver, error) {
	return s.repo.GetAll()
}

// GetDriverByID retrieves a single driver by its ID.
func (s *DriverService) GetDriverByID(id string) (*models.Driver, error) {
	return s.repo.GetByID(id)
}

// CreateDriver creates a new driver.
func (s *DriverService) CreateDriver(driver *models.Driver) error {
	return s.repo.Create(driver)
}

// UpdateDriver updates an existing driver.
func (s *DriverService) UpdateDriver(driver *models.Driver) error {
	return s.repo.Update(driver)
}

// DeleteDriver deletes a driver by its ID.
func (s *DriverService) DeleteDriver(id string) error {
	return s.repo.Delete(id)
}

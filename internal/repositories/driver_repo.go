package repositories

import (
	"fleuria/internal/models"
)

// DriverRepository defines the interface for driver data access.
type DriverRepository interface {
	GetAll() ([]models.Driver, error)
	GetByID(id string) (*models.Driver, error)
	Create(driver *models.Driver) error
	Update(driver *models.Driver) error
	Delete(id string) error
}

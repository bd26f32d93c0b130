package repositories

import (
	"fmt"

	"fleuria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMDriverRepository is a GORM implementation of DriverRepository.
type GORMDriverRepository struct {
	db *gorm.DB
}

// NewGORMDriverRepository creates a new instance of GORMDriverRepository.
func NewGORMDriverRepository(db *gorm.DB) *GORMDriverRepository {
	return &GORMDriverRepository{
		db: db,
	}
}

// GetAll retrieves all drivers.
func (r *GORMDriverRepository) GetAll() ([]models.Driver, error) {
	var drivers []models.Driver
	if err := r.db.Find(&drivers).Error; err != nil {
		return nil, fmt.Errorf("failed to get all drivers: %w", err)
	}
	return drivers, nil
}

// GetByID retrieves a single driver by its ID.
func (r *GORMDriverRepository) GetByID(id string) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.First(&driver, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("driver with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get driver by ID %s: %w", id, err)
	}
	return &driver, nil
}

// Create creates a new driver in the database.
func (r *GORMDriverRepository) Create(driver *models.Driver) error {
	if driver.ID == "" {
		driver.ID = uuid.New().String()
	}
	if driver.Status == "" {
		driver.Status = models.DriverActive
	}
	if err := r.db.Create(driver).Error; err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

// Update updates an existing driver in the database.
func (r *GORMDriverRepository) Update(driver *models.Driver) error {
	res := r.db.Save(driver)
	if res.Error != nil {
		return fmt.Errorf("failed to update driver: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("driver with ID %s not found for update", driver.ID)
	}
	return nil
}

// Delete deletes a driver by its ID from the database.
func (r *GORMDriverRepository) Delete(id string) error {
	res := r.db.Delete(&models.Driver{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete driver: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("driver with ID %s not found for deletion", id)
	}
	return nil
}

package repositories

import "fleuria/internal/models"

// UserRepository defines the interface for user/profile data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
}

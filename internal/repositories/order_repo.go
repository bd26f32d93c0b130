package repositories

import (
	"fleuria/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// CreateWithItems persists the order and all of its items in a single
	// transaction and assigns the sequential order number inside that
	// transaction. Either everything is written or nothing is.
	CreateWithItems(order *models.Order) error
	UpdateStatus(id string, status string) error
	AssignDriver(id string, driverID string, driverName string) error
	// Delete removes the order's items first, then the order itself.
	Delete(id string) error
	// Exists reports whether an order row is present, used to detect
	// deletes that were silently rejected by the store.
	Exists(id string) (bool, error)
}

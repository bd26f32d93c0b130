package repositories

import (
	"fleuria/internal/models"
)

// CartRepository defines the interface for the remote per-user cart store.
// Delete and DeleteAll are idempotent: removing an absent row is not an error.
type CartRepository interface {
	GetByUser(userID string) ([]models.CartItem, error)
	// Upsert inserts the row or atomically adds item.Quantity to the
	// existing quantity for the same (user, product) key.
	Upsert(item *models.CartItem) error
	UpdateQuantity(userID, productID string, quantity int) error
	Delete(userID, productID string) error
	DeleteAll(userID string) error
}

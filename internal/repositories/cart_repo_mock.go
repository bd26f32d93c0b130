package repositories

import (
	"fmt"
	"sync"
	"time"

	"fleuria/internal/models"
)

type cartKey struct {
	userID    string
	productID string
}

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	items map[cartKey]models.CartItem
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		items: make(map[cartKey]models.CartItem),
	}
}

// GetByUser returns all cart rows for a user.
func (r *MockCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.CartItem, 0)
	for key, item := range r.items {
		if key.userID == userID {
			itemList = append(itemList, item)
		}
	}
	return itemList, nil
}

// Upsert inserts the row or adds item.Quantity to the stored quantity.
func (r *MockCartRepository) Upsert(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cartKey{userID: item.UserID, productID: item.ProductID}
	if existing, ok := r.items[key]; ok {
		existing.Quantity += item.Quantity
		existing.UpdatedAt = time.Now()
		r.items[key] = existing
		return nil
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	r.items[key] = *item
	return nil
}

// UpdateQuantity sets the quantity of an existing cart row.
func (r *MockCartRepository) UpdateQuantity(userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cartKey{userID: userID, productID: productID}
	item, ok := r.items[key]
	if !ok {
		return fmt.Errorf("cart item (%s, %s) not found for quantity update", userID, productID)
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	r.items[key] = item
	return nil
}

// Delete removes one cart row. Deleting an absent row is not an error.
func (r *MockCartRepository) Delete(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, cartKey{userID: userID, productID: productID})
	return nil
}

// DeleteAll removes every cart row for a user.
func (r *MockCartRepository) DeleteAll(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.items {
		if key.userID == userID {
			delete(r.items, key)
		}
	}
	return nil
}

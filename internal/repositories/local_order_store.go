package repositories

import (
	"sync"

	"fleuria/internal/models"
)

// LocalOrderStore holds orders that could not be persisted to the database.
// It is created at startup and injected wherever fallback orders must be
// recorded or listed, so the fallback path has no ambient global state.
// Everything in it is lost on restart; that is the contract of a fallback.
type LocalOrderStore struct {
	orders []models.Order
	mu     sync.RWMutex
}

// NewLocalOrderStore creates an empty LocalOrderStore.
func NewLocalOrderStore() *LocalOrderStore {
	return &LocalOrderStore{}
}

// Append records a fallback order.
func (s *LocalOrderStore) Append(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, order)
}

// All returns a copy of every fallback order, newest last.
func (s *LocalOrderStore) All() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// ByUser returns the fallback orders belonging to one user.
func (s *LocalOrderStore) ByUser(userID string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out
}

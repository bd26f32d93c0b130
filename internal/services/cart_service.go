package services

import (
	"log"
	"sync"

	"fleuria/internal/models"
	"fleuria/internal/repositories"
)

// CartService keeps an authoritative in-memory view of each shopper's cart
// and mirrors changes to the remote cart store for authenticated users.
// Guests get a purely local cart keyed by a generated guest key.
//
// The mirror is best-effort: every remote failure is logged and swallowed, so
// the cart a shopper sees always reflects local state. The remote store is a
// convenience replica for cross-session persistence, reconciled by Load on
// the next sign-in.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository

	mu    sync.RWMutex
	carts map[string][]models.CartLine
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		carts:       make(map[string][]models.CartLine),
	}
}

// Load fetches the user's remote cart, joins each row against the catalog and
// replaces the local view. Rows whose product no longer exists are dropped.
// A fetch failure never blocks sign-in: it is logged and an empty cart is
// returned.
func (s *CartService) Load(userID string) []models.CartLine {
	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		log.Printf("Failed to load cart for user %s: %v", userID, err)
		s.replace(userID, nil)
		return []models.CartLine{}
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ids)
	if err != nil {
		log.Printf("Failed to join cart of user %s against catalog: %v", userID, err)
		s.replace(userID, nil)
		return []models.CartLine{}
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Product was removed from the catalog since the row was
			// written; the line is silently discarded.
			continue
		}
		lines = append(lines, models.CartLine{Product: product, Quantity: item.Quantity})
	}

	s.replace(userID, lines)
	return s.Lines(userID)
}

// Lines returns a copy of the local cart for a session key.
func (s *CartService) Lines(key string) []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]models.CartLine, len(s.carts[key]))
	copy(lines, s.carts[key])
	return lines
}

// Select returns the local cart lines whose product IDs appear in productIDs.
func (s *CartService) Select(key string, productIDs []string) []models.CartLine {
	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	selected := make([]models.CartLine, 0, len(productIDs))
	for _, line := range s.carts[key] {
		if wanted[line.Product.ID] {
			selected = append(selected, line)
		}
	}
	return selected
}

// Add puts quantity units of a product into the cart, merging into an
// existing line when one is present. The local update is synchronous; the
// remote mirror (authenticated users only) is best-effort.
func (s *CartService) Add(key string, authenticated bool, product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	lines := s.carts[key]
	merged := false
	for i := range lines {
		if lines[i].Product.ID == product.ID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, models.CartLine{Product: product, Quantity: quantity})
	}
	s.carts[key] = lines
	s.mu.Unlock()

	if !authenticated {
		return
	}
	// The upsert adds the delta server-side, so it covers both the insert
	// and the pre-existing-line case without a read-then-write race.
	err := s.cartRepo.Upsert(&models.CartItem{UserID: key, ProductID: product.ID, Quantity: quantity})
	if err != nil {
		log.Printf("Failed to mirror cart add for user %s, product %s: %v", key, product.ID, err)
	}
}

// UpdateQuantity sets the quantity of an existing cart line. Quantities
// below 1 are rejected as a no-op.
func (s *CartService) UpdateQuantity(key string, authenticated bool, productID string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.carts[key] {
		if s.carts[key][i].Product.ID == productID {
			s.carts[key][i].Quantity = quantity
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found || !authenticated {
		return
	}
	if err := s.cartRepo.UpdateQuantity(key, productID, quantity); err != nil {
		log.Printf("Failed to mirror cart quantity for user %s, product %s: %v", key, productID, err)
	}
}

// Remove deletes a cart line. Removing an absent line is harmless.
func (s *CartService) Remove(key string, authenticated bool, productID string) {
	s.RemoveLocal(key, productID)

	if !authenticated {
		return
	}
	if err := s.cartRepo.Delete(key, productID); err != nil {
		log.Printf("Failed to mirror cart removal for user %s, product %s: %v", key, productID, err)
	}
}

// RemoveLocal deletes a cart line from the local view only. Checkout uses it
// when the remote store is unreachable, so the UI never re-offers lines that
// were already checked out.
func (s *CartService) RemoveLocal(key string, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[key]
	for i := range lines {
		if lines[i].Product.ID == productID {
			s.carts[key] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart locally and, for authenticated users, remotely.
func (s *CartService) Clear(key string, authenticated bool) {
	s.replace(key, nil)

	if !authenticated {
		return
	}
	if err := s.cartRepo.DeleteAll(key); err != nil {
		log.Printf("Failed to mirror cart clear for user %s: %v", key, err)
	}
}

func (s *CartService) replace(key string, lines []models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lines == nil {
		delete(s.carts, key)
		return
	}
	s.carts[key] = lines
}

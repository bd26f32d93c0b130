package services

import (
	"encoding/json"
	"fmt"
	"log"

	"fleuria/internal/models"
	"fleuria/internal/repositories"
	"fleuria/pkg/rabbitmq"
)

// validStatuses is the set of statuses an admin may set. Transitions between
// them are deliberately unconstrained: status is an enum with a conventional
// ordering, not an enforced state machine.
var validStatuses = map[string]bool{
	models.StatusPending:   true,
	models.StatusConfirmed: true,
	models.StatusPreparing: true,
	models.StatusReady:     true,
	models.StatusDelivered: true,
}

// OrderService handles order history and the admin-side order lifecycle:
// accept, status changes, driver assignment and deletion.
//
// Unlike the cart boundary, nothing here is swallowed: every mutation talks
// to the store first and reports its error, so callers only ever observe
// confirmed state.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	driverRepo  repositories.DriverRepository
	localOrders *repositories.LocalOrderStore
	mqClient    *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	driverRepo repositories.DriverRepository,
	localOrders *repositories.LocalOrderStore,
	mqClient *rabbitmq.Client,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		driverRepo:  driverRepo,
		localOrders: localOrders,
		mqClient:    mqClient,
	}
}

// ListAll returns every order, persisted ones first, then any local-only
// fallback orders so the back office still sees checkouts that could not be
// persisted.
func (s *OrderService) ListAll() ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return append(orders, s.localOrders.All()...), nil
}

// ListByUser returns one user's orders plus their fallback orders.
func (s *OrderService) ListByUser(userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return append(orders, s.localOrders.ByUser(userID)...), nil
}

// Get retrieves a single order by its ID.
func (s *OrderService) Get(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// Accept marks an order Confirmed, which unlocks driver assignment. It is a
// direct set, so accepting an already-Confirmed order is safe.
func (s *OrderService) Accept(orderID string) error {
	return s.UpdateStatus(orderID, models.StatusConfirmed)
}

// UpdateStatus sets an order's status to any of the known values.
func (s *OrderService) UpdateStatus(orderID string, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", orderID, err)
	}

	s.publishEvent("order.status_changed", map[string]interface{}{
		"orderID": orderID,
		"status":  status,
	})
	return nil
}

// AssignDriver records a driver on an order. The driver must exist; the
// order stores the stable driver ID and the display name captured now.
func (s *OrderService) AssignDriver(orderID string, driverID string) error {
	driver, err := s.driverRepo.GetByID(driverID)
	if err != nil {
		return fmt.Errorf("cannot assign driver to order %s: %w", orderID, err)
	}

	if err := s.orderRepo.AssignDriver(orderID, driver.ID, driver.Name); err != nil {
		return fmt.Errorf("failed to assign driver to order %s: %w", orderID, err)
	}

	s.publishEvent("order.status_changed", map[string]interface{}{
		"orderID": orderID,
		"driver":  driver.Name,
	})
	return nil
}

// Delete removes an order and its items. After a delete that reported
// success, the row is checked again: if it is still present the store
// silently rejected the delete, which is reported as
// ErrAuthorizationSuspected rather than success.
func (s *OrderService) Delete(orderID string) error {
	if err := s.orderRepo.Delete(orderID); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}

	exists, err := s.orderRepo.Exists(orderID)
	if err != nil {
		return fmt.Errorf("failed to verify deletion of order %s: %w", orderID, err)
	}
	if exists {
		return fmt.Errorf("%w: order %s", ErrAuthorizationSuspected, orderID)
	}
	return nil
}

func (s *OrderService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", eventType, err)
	}
}

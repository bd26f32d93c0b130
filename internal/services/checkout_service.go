package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"fleuria/internal/models"
	"fleuria/internal/repositories"
	"fleuria/pkg/rabbitmq"
)

// DeliveryInfo carries the delivery details a shopper submits at checkout.
type DeliveryInfo struct {
	Phone           string
	DeliveryAddress string
	DeliveryOption  string // "delivery" or "pickup"
	Payment         string // "Cash" or "Card"
}

// CheckoutService converts selected cart lines into a persisted order.
//
// The order and its items are written in one transaction. When that
// transaction fails, a local-only fallback order is recorded in the injected
// LocalOrderStore so the shopper and the back office still see it; the
// selected cart lines are cleared locally on every outcome so they are never
// offered twice.
type CheckoutService struct {
	cart        *CartService
	orderRepo   repositories.OrderRepository
	userRepo    repositories.UserRepository
	localOrders *repositories.LocalOrderStore
	mqClient    *rabbitmq.Client
	deliveryFee int
}

// NewCheckoutService creates a new CheckoutService. deliveryFee is the flat
// peso surcharge applied when the delivery option is "delivery".
func NewCheckoutService(
	cart *CartService,
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	localOrders *repositories.LocalOrderStore,
	mqClient *rabbitmq.Client,
	deliveryFee int,
) *CheckoutService {
	return &CheckoutService{
		cart:        cart,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		localOrders: localOrders,
		mqClient:    mqClient,
		deliveryFee: deliveryFee,
	}
}

// Total computes the checkout total for a set of lines and a delivery option.
func (s *CheckoutService) Total(lines []models.CartLine, deliveryOption string) int {
	subtotal := 0
	for _, line := range lines {
		subtotal += line.Subtotal()
	}
	if deliveryOption == models.DeliveryOptionDelivery {
		return subtotal + s.deliveryFee
	}
	return subtotal
}

// Checkout turns the selected cart lines into an order.
//
// Preconditions: an authenticated session (ErrAuthRequired) and an existing
// profile record (ErrProfileIncomplete); both abort before any write. When
// persistence fails the returned order is the local-only fallback and the
// error wraps ErrPersistenceFailed.
func (s *CheckoutService) Checkout(userID string, selectedProductIDs []string, info DeliveryInfo) (*models.Order, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileIncomplete, err)
	}

	lines := s.cart.Select(userID, selectedProductIDs)
	if len(lines) == 0 {
		return nil, ErrEmptySelection
	}

	phone := info.Phone
	if phone == "" {
		phone = user.Phone
	}
	payment := info.Payment
	if payment == "" {
		payment = models.PaymentCash
	}

	// Snapshot the lines now: item prices are frozen at checkout time and
	// stay stable against later catalog edits.
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     s.Total(lines, info.DeliveryOption),
		Phone:           phone,
		OrderDate:       time.Now(),
		Status:          models.StatusPending,
		Payment:         payment,
		DriverName:      models.DriverUnassigned,
		DeliveryAddress: info.DeliveryAddress,
		DeliveryOption:  info.DeliveryOption,
	}

	if err := s.orderRepo.CreateWithItems(order); err != nil {
		log.Printf("Failed to persist order for user %s: %v", userID, err)
		fallback := s.recordFallback(order)
		// The shopper should not be re-offered lines they believe they
		// bought; clear them locally even though the store is down.
		for _, id := range selectedProductIDs {
			s.cart.RemoveLocal(userID, id)
		}
		return fallback, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	for _, id := range selectedProductIDs {
		s.cart.Remove(userID, true, id)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"userID":      order.UserID,
		"status":      order.Status,
		"total":       order.TotalAmount,
	})

	return order, nil
}

// recordFallback stamps the unpersisted order with a client-side identity and
// stores it locally.
func (s *CheckoutService) recordFallback(order *models.Order) *models.Order {
	fallback := *order
	fallback.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	fallback.OrderNumber = "ORD-LOCAL-" + fallback.ID
	fallback.CreatedAt = time.Now()
	fallback.UpdatedAt = fallback.CreatedAt
	for i := range fallback.Items {
		fallback.Items[i].OrderID = fallback.ID
	}
	s.localOrders.Append(fallback)
	return &fallback
}

func (s *CheckoutService) publishEvent(eventType string, payload map[string]interface{}) {
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

package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"fleuria/internal/models"
	"fleuria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout, order history and the
// admin-side order lifecycle.
type OrderHandler struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	validate        *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkoutService *services.CheckoutService, orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the authenticated shopper routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
	router.Get("/orders", h.HandleGetMyOrders)
	router.Get("/orders/:id", h.HandleGetOrderByID)
}

// RegisterAdminRoutes registers the back-office routes on an admin-gated
// router.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetAllOrders)
	orderRoutes.Post("/:id/accept", h.HandleAcceptOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id/driver", h.HandleAssignDriver)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// CheckoutRequest represents a checkout submission: the selected cart lines
// plus delivery details.
type CheckoutRequest struct {
	ProductIDs      []string `json:"product_ids" validate:"required,min=1"`
	Phone           string   `json:"phone" validate:"omitempty,max=20"`
	DeliveryAddress string   `json:"delivery_address" validate:"omitempty,max=500"`
	DeliveryOption  string   `json:"delivery_option" validate:"required,oneof=delivery pickup"`
	Payment         string   `json:"payment" validate:"omitempty,oneof=Cash Card"`
}

// HandleCheckout converts the selected cart lines into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	userID, _ := c.Locals("user_id").(string)
	order, err := h.checkoutService.Checkout(userID, req.ProductIDs, services.DeliveryInfo{
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryOption:  req.DeliveryOption,
		Payment:         req.Payment,
	})
	if err != nil {
		log.Printf("Checkout failed for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Sign in to place an order",
			})
		case errors.Is(err, services.ErrProfileIncomplete):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Your profile could not be found, please sign in again",
			})
		case errors.Is(err, services.ErrEmptySelection):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "None of the selected items are in your cart",
			})
		case errors.Is(err, services.ErrPersistenceFailed):
			// The fallback order preserves the selection and totals;
			// the client shows it with a warning.
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"warning": "Your order could not be saved to the store and is held locally",
				"order":   order,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not place order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetMyOrders returns the caller's order history.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	orders, err := h.orderService.ListByUser(userID)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns one order. Shoppers only see their own orders;
// admins see any.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orderService.Get(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}

	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	if order.UserID != userID && role != models.RoleAdmin {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	}
	return c.JSON(order)
}

// HandleGetAllOrders returns every order, including local-only fallbacks.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListAll()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleAcceptOrder confirms a pending order.
func (h *OrderHandler) HandleAcceptOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.orderService.Accept(orderID); err != nil {
		return h.orderMutationError(c, orderID, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s confirmed", orderID),
	})
}

// UpdateStatusRequest represents a direct status set.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus sets the status of an order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required",
		})
	}

	if err := h.orderService.UpdateStatus(orderID, req.Status); err != nil {
		if strings.Contains(err.Error(), "invalid order status") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		return h.orderMutationError(c, orderID, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated to %s", orderID, req.Status),
	})
}

// AssignDriverRequest represents a driver assignment.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required"`
}

// HandleAssignDriver assigns a driver to an order.
func (h *OrderHandler) HandleAssignDriver(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req AssignDriverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Driver ID is required",
		})
	}

	if err := h.orderService.AssignDriver(orderID, req.DriverID); err != nil {
		return h.orderMutationError(c, orderID, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Driver assigned to order %s", orderID),
	})
}

// HandleDeleteOrder deletes an order and its items.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.orderService.Delete(orderID); err != nil {
		if errors.Is(err, services.ErrAuthorizationSuspected) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "The store refused to delete this order",
				"error":   err.Error(),
			})
		}
		return h.orderMutationError(c, orderID, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s deleted successfully", orderID),
	})
}

func (h *OrderHandler) orderMutationError(c *fiber.Ctx, orderID string, err error) error {
	log.Printf("Order mutation failed for order %s: %v", orderID, err)
	if strings.Contains(err.Error(), "not found") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order update failed: %v", err.Error()),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not update order",
		"error":   err.Error(),
	})
}

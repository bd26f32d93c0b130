package handlers

import (
	"fmt"
	"log"
	"strings"

	"fleuria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GuestIDHeader carries the cart key for shoppers without an account. When a
// guest request arrives without one, a fresh key is generated and echoed back
// so the client can keep using it.
const GuestIDHeader = "X-Guest-ID"

// CartHandler handles HTTP requests for the shopping cart. Its routes accept
// both authenticated users and guests (OptionalAuth middleware).
type CartHandler struct {
	cartService    *services.CartService
	productService *services.ProductService
	validate       *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, productService *services.ProductService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the cart routes. The router must carry the
// OptionalAuth middleware.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/sync", h.HandleSyncCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// session resolves the cart key for this request: the user ID when a valid
// token was presented, otherwise the guest key (minting one if needed).
func (h *CartHandler) session(c *fiber.Ctx) (key string, authenticated bool) {
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		return userID, true
	}
	if guest := c.Get(GuestIDHeader); guest != "" {
		return guest, false
	}
	guest := uuid.New().String()
	c.Set(GuestIDHeader, guest)
	return guest, false
}

// HandleGetCart returns the local cart view.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	key, _ := h.session(c)
	return c.JSON(h.cartService.Lines(key))
}

// HandleSyncCart reconciles the local cart from the remote store. Clients
// call it after sign-in; a store failure still yields an empty cart rather
// than an error, so sign-in is never blocked.
func (h *CartHandler) HandleSyncCart(c *fiber.Ctx) error {
	key, authenticated := h.session(c)
	if !authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Sign in to sync your cart",
		})
	}
	return c.JSON(h.cartService.Load(key))
}

// AddItemRequest represents an add-to-cart request.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

// HandleAddItem puts a product into the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
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
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.productService.GetProductByID(req.ProductID)
	if err != nil {
		log.Printf("Add to cart with unknown product %s: %v", req.ProductID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", req.ProductID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not look up product",
			"error":   err.Error(),
		})
	}

	key, authenticated := h.session(c)
	h.cartService.Add(key, authenticated, *product, req.Quantity)
	return c.Status(fiber.StatusCreated).JSON(h.cartService.Lines(key))
}

// UpdateQuantityRequest represents a quantity change for one cart line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdateQuantity sets the quantity of a cart line. Quantities below 1
// are rejected before they reach the cart.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Quantity must be at least 1",
		})
	}

	key, authenticated := h.session(c)
	h.cartService.UpdateQuantity(key, authenticated, c.Params("productId"), req.Quantity)
	return c.JSON(h.cartService.Lines(key))
}

// HandleRemoveItem deletes a cart line. Removing an absent line succeeds.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	key, authenticated := h.session(c)
	h.cartService.Remove(key, authenticated, c.Params("productId"))
	return c.JSON(h.cartService.Lines(key))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	key, authenticated := h.session(c)
	h.cartService.Clear(key, authenticated)
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

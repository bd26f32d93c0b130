package handlers

import (
	"fmt"
	"log"
	"strings"

	"fleuria/internal/models"
	"fleuria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DriverHandler handles HTTP requests for the driver roster.
type DriverHandler struct {
	service  *services.DriverService
	validate *validator.Validate
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(service *services.DriverService) *DriverHandler {
	return &DriverHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterAdminRoutes registers the driver routes on an admin-gated router.
func (h *DriverHandler) RegisterAdminRoutes(router fiber.Router) {
	driverRoutes := router.Group("/drivers")
	driverRoutes.Get("/", h.HandleGetDrivers)
	driverRoutes.Post("/", h.HandleCreateDriver)
	driverRoutes.Put("/:id", h.HandleUpdateDriver)
	driverRoutes.Delete("/:id", h.HandleDeleteDriver)
}

// HandleGetDrivers returns all drivers for the assignment dropdown.
func (h *DriverHandler) HandleGetDrivers(c *fiber.Ctx) error {
	drivers, err := h.service.GetAllDrivers()
	if err != nil {
		log.Printf("Error getting drivers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve drivers",
			"error":   err.Error(),
		})
	}
	return c.JSON(drivers)
}

// HandleCreateDriver creates a new driver.
func (h *DriverHandler) HandleCreateDriver(c *fiber.Ctx) error {
	var driver models.Driver
	if err := c.BodyParser(&driver); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(driver); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateDriver(&driver); err != nil {
		log.Printf("Error creating driver: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create driver",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(driver)
}

// HandleUpdateDriver updates an existing driver.
func (h *DriverHandler) HandleUpdateDriver(c *fiber.Ctx) error {
	var driver models.Driver
	if err := c.BodyParser(&driver); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	driver.ID = c.Params("id")

	if err := h.service.UpdateDriver(&driver); err != nil {
		log.Printf("Error updating driver %s: %v", driver.ID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Driver with ID %s not found", driver.ID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update driver",
			"error":   err.Error(),
		})
	}
	return c.JSON(driver)
}

// HandleDeleteDriver deletes a driver.
func (h *DriverHandler) HandleDeleteDriver(c *fiber.Ctx) error {
	driverID := c.Params("id")
	if err := h.service.DeleteDriver(driverID); err != nil {
		log.Printf("Error deleting driver %s: %v", driverID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Driver with ID %s not found", driverID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete driver",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Driver %s deleted successfully", driverID),
	})
}

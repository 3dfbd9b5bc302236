package handlers

import (
	"log"
	"strings"

	"zynkadmin/internal/models"
	"zynkadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and driver assignment.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Post("/:id/driver", h.HandleAssignDriver)

	router.Get("/drivers", h.HandleListDrivers)
}

// orderItemView is an order item with its prices rendered for display.
type orderItemView struct {
	models.OrderItem
	UnitPriceDisplay  string `json:"unit_price_display"`
	TotalPriceDisplay string `json:"total_price_display"`
}

// orderView is an order with its monetary amounts rendered as 2-decimal
// currency strings alongside the numeric values.
type orderView struct {
	models.Order
	SubtotalDisplay    string          `json:"subtotal_display"`
	DeliveryFeeDisplay string          `json:"delivery_fee_display"`
	DiscountDisplay    string          `json:"discount_display"`
	TotalDisplay       string          `json:"total_display"`
	Items              []orderItemView `json:"items,omitempty"`
}

func newOrderView(order models.Order) orderView {
	view := orderView{
		Order:              order,
		SubtotalDisplay:    models.FormatUSD(order.Subtotal),
		DeliveryFeeDisplay: models.FormatUSD(order.DeliveryFee),
		DiscountDisplay:    models.FormatUSD(order.Discount),
		TotalDisplay:       models.FormatUSD(order.Total),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, orderItemView{
			OrderItem:         item,
			UnitPriceDisplay:  models.FormatUSD(item.UnitPrice),
			TotalPriceDisplay: models.FormatUSD(item.TotalPrice),
		})
	}
	return view
}

// HandleListOrders retrieves orders, optionally filtered by ?status=.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	status := models.OrderStatus(c.Query("status"))

	orders, err := h.service.ListOrders(status)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		if strings.Contains(err.Error(), "invalid order status") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid status filter",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newOrderView(order))
	}
	return c.JSON(views)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(newOrderView(*order))
}

// HandleUpdateStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	err := h.service.UpdateStatus(orderID, models.OrderStatus(updateData.Status))
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
				"error":   err.Error(),
			})
		}
		if strings.Contains(err.Error(), "invalid order status") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid order status",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"status":  updateData.Status,
	})
}

// HandleAssignDriver assigns a driver to a ready order.
func (h *OrderHandler) HandleAssignDriver(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var assignData struct {
		DriverID string `json:"driver_id"`
	}

	if err := c.BodyParser(&assignData); err != nil {
		log.Printf("Error parsing request body for driver assignment: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for driver assignment",
			"error":   err.Error(),
		})
	}

	if assignData.DriverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Driver ID is required for assignment.",
		})
	}

	err := h.service.AssignDriver(orderID, assignData.DriverID)
	if err != nil {
		log.Printf("Error assigning driver to order %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order or driver not found",
				"error":   err.Error(),
			})
		}
		if strings.Contains(err.Error(), "not ready") ||
			strings.Contains(err.Error(), "already has a driver") ||
			strings.Contains(err.Error(), "not available") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Driver assignment rejected",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not assign driver",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Driver assigned successfully",
		"status":  string(models.StatusAssigned),
	})
}

// HandleListDrivers lists the drivers eligible for the assignment picker.
func (h *OrderHandler) HandleListDrivers(c *fiber.Ctx) error {
	drivers, err := h.service.ListAvailableDrivers()
	if err != nil {
		log.Printf("Error listing available drivers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve drivers",
			"error":   err.Error(),
		})
	}
	return c.JSON(drivers)
}

package handlers

import (
	"log"

	"zynkadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// recentOrderCount is how many orders the dashboard shows in its
// "recent orders" table.
const recentOrderCount = 10

// DashboardHandler serves the aggregated dashboard landing payload.
type DashboardHandler struct {
	service *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

// RegisterRoutes registers the dashboard route with the Fiber app.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleGetDashboard)
}

// HandleGetDashboard returns the dashboard stats and recent orders.
func (h *DashboardHandler) HandleGetDashboard(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		log.Printf("Error getting dashboard stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve dashboard stats",
			"error":   err.Error(),
		})
	}

	recent, err := h.service.GetRecentOrders(recentOrderCount)
	if err != nil {
		log.Printf("Error getting recent orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve recent orders",
			"error":   err.Error(),
		})
	}

	recentViews := make([]orderView, 0, len(recent))
	for _, order := range recent {
		recentViews = append(recentViews, newOrderView(order))
	}

	return c.JSON(fiber.Map{
		"stats":         stats,
		"recent_orders": recentViews,
	})
}

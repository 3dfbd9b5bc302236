package services

import (
	"fmt"
	"log"

	"zynkadmin/internal/models"
	"zynkadmin/internal/repositories"
	"zynkadmin/pkg/rabbitmq"
)

// OrderService enforces the order lifecycle rules: which status values are
// recognized, and the coupling of driver assignment to the ready status.
//
// Status transitions are deliberately permissive: any recognized status may
// be set from any other, matching the operator workflow this dashboard
// serves (admins fix mis-keyed statuses by moving orders backwards).
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	mqClient  *rabbitmq.Client // optional, nil disables event publishing
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		mqClient:  mqClient,
	}
}

// ListOrders retrieves orders newest-first, optionally filtered by status.
// An empty filter returns the full set.
func (s *OrderService) ListOrders(status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}
	return s.orderRepo.List(status)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateStatus persists a new status for an order. The status must be one of
// the nine recognized values; beyond that any value may be set from any
// current value. On persistence failure the stored status is unchanged and
// the error is reported without retry.
func (s *OrderService) UpdateStatus(orderID string, status models.OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", orderID, err)
	}

	s.publishEvent("order.status_updated", map[string]interface{}{
		"orderID": orderID,
		"status":  string(status),
	})
	return nil
}

// AssignDriver assigns a driver to an order. The order must exist, be in the
// ready status and have no driver yet; the repository re-checks these
// preconditions plus the driver's availability inside the same transaction
// that writes driver_id and status=assigned as one atomic update.
func (s *OrderService) AssignDriver(orderID, driverID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != models.StatusReady {
		return fmt.Errorf("order %s is not ready for driver assignment (status: %s)", orderID, order.Status)
	}
	if order.DriverID != nil {
		return fmt.Errorf("order %s already has a driver assigned", orderID)
	}

	if err := s.orderRepo.AssignDriver(orderID, driverID); err != nil {
		return fmt.Errorf("failed to assign driver to order %s: %w", orderID, err)
	}

	s.publishEvent("order.driver_assigned", map[string]interface{}{
		"orderID":  orderID,
		"driverID": driverID,
		"status":   string(models.StatusAssigned),
	})
	return nil
}

// ListAvailableDrivers returns the drivers eligible for the assignment
// picker: role driver, currently marked available.
func (s *OrderService) ListAvailableDrivers() ([]models.User, error) {
	return s.userRepo.GetAvailableDrivers()
}

// publishEvent publishes an order event if a broker is configured. Publish
// failures are logged and never fail the mutation that triggered them.
func (s *OrderService) publishEvent(event string, data map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishOrderEvent(event, data); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}

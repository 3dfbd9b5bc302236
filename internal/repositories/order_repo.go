package repositories

import (
	"zynkadmin/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are created by the customer-facing ordering flow; Create exists
// only for seeding and tests. Orders are never deleted by this system.
type OrderRepository interface {
	// List returns orders newest-first, with customer, driver, address and
	// items (with product) embedded. An empty status returns the full set.
	List(status models.OrderStatus) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
	// AssignDriver sets driver_id and forces status to assigned as one
	// atomic write. It verifies, within the same transaction, that the
	// order is still ready with no driver and that the driver is available.
	AssignDriver(orderID, driverID string) error

	// Dashboard aggregations.
	Count() (int64, error)
	CountByStatuses(statuses []models.OrderStatus) (int64, error)
	SumTotalByPaymentStatus(paymentStatus string) (float64, error)
	GetRecent(limit int) ([]models.Order, error)
}

package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"zynkadmin/internal/models"

	"github.com/google/uuid"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository,
// used when no database is configured and in tests. If users is non-nil it
// is consulted for driver availability during assignment.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	users  *MemoryUserRepository
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository(users *MemoryUserRepository) *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
		users:  users,
	}
}

// List returns orders newest-first, optionally filtered by status.
func (r *MemoryOrderRepository) List(status models.OrderStatus) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if status != "" && order.Status != status {
			continue
		}
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &order, nil
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = time.Now()
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MemoryOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// AssignDriver sets driver_id and status=assigned as one update under the
// repository lock, re-checking the preconditions and driver availability.
func (r *MemoryOrderRepository) AssignDriver(orderID, driverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order with ID %s not found", orderID)
	}
	if order.Status != models.StatusReady {
		return fmt.Errorf("order %s is not ready for driver assignment (status: %s)", orderID, order.Status)
	}
	if order.DriverID != nil {
		return fmt.Errorf("order %s already has a driver assigned", orderID)
	}

	var driver *models.User
	if r.users != nil {
		u, err := r.users.GetByID(driverID)
		if err != nil {
			return fmt.Errorf("driver with ID %s not found", driverID)
		}
		if u.DriverDetails == nil || !u.DriverDetails.IsAvailable {
			return fmt.Errorf("driver %s is not available", driverID)
		}
		driver = u
	}

	order.DriverID = &driverID
	order.Status = models.StatusAssigned
	order.Driver = driver
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order
	return nil
}

// Count returns the total number of orders.
func (r *MemoryOrderRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

// CountByStatuses returns the number of orders whose status is in statuses.
func (r *MemoryOrderRepository) CountByStatuses(statuses []models.OrderStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, order := range r.orders {
		for _, s := range statuses {
			if order.Status == s {
				count++
				break
			}
		}
	}
	return count, nil
}

// SumTotalByPaymentStatus sums order totals with the given payment status.
func (r *MemoryOrderRepository) SumTotalByPaymentStatus(paymentStatus string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	for _, order := range r.orders {
		if order.PaymentStatus == paymentStatus {
			sum += order.Total
		}
	}
	return sum, nil
}

// GetRecent returns the most recent orders.
func (r *MemoryOrderRepository) GetRecent(limit int) ([]models.Order, error) {
	orders, err := r.List("")
	if err != nil {
		return nil, err
	}
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

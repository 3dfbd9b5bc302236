package repositories

import (
	"fmt"

	"zynkadmin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func (r *GORMOrderRepository) withEmbeds(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Driver").
		Preload("Address").
		Preload("Items").
		Preload("Items.Product")
}

// List retrieves orders newest-first, optionally filtered by status.
func (r *GORMOrderRepository) List(status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	query := r.withEmbeds(r.db).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with all embeds.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.withEmbeds(r.db).First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create inserts an order with its items. Used for seeding and tests only.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus persists a new status for the order.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}

// AssignDriver writes driver_id and status=assigned together in a single
// transaction. The preconditions live in the UPDATE's WHERE clause rather
// than in a prior SELECT: under read-committed isolation a plain read lets
// two concurrent admins both see a ready, driverless order, so the write
// itself must be conditional. Zero rows affected means the order vanished or
// another admin got there first; the losing caller gets an error, never a
// silent overwrite.
func (r *GORMOrderRepository) AssignDriver(orderID, driverID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var details models.DriverDetails
		if err := tx.First(&details, "user_id = ?", driverID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("driver with ID %s not found", driverID)
			}
			return fmt.Errorf("failed to load driver %s: %w", driverID, err)
		}
		if !details.IsAvailable {
			return fmt.Errorf("driver %s is not available", driverID)
		}

		// driver_id and status must land together, never one without the other.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ? AND driver_id IS NULL", orderID, models.StatusReady).
			Updates(map[string]interface{}{
				"driver_id": driverID,
				"status":    models.StatusAssigned,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to assign driver to order %s: %w", orderID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Diagnose which precondition failed for the error message.
			var order models.Order
			if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fmt.Errorf("order with ID %s not found", orderID)
				}
				return fmt.Errorf("failed to load order %s: %w", orderID, err)
			}
			if order.DriverID != nil {
				return fmt.Errorf("order %s already has a driver assigned", orderID)
			}
			return fmt.Errorf("order %s is not ready for driver assignment (status: %s)", orderID, order.Status)
		}
		return nil
	})
}

// Count returns the total number of orders.
func (r *GORMOrderRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// CountByStatuses returns the number of orders whose status is in statuses.
func (r *GORMOrderRepository) CountByStatuses(statuses []models.OrderStatus) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("status IN ?", statuses).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return count, nil
}

// SumTotalByPaymentStatus sums order totals with the given payment status.
func (r *GORMOrderRepository) SumTotalByPaymentStatus(paymentStatus string) (float64, error) {
	var sum float64
	err := r.db.Model(&models.Order{}).
		Where("payment_status = ?", paymentStatus).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum order totals: %w", err)
	}
	return sum, nil
}

// GetRecent returns the most recent orders with the customer embedded.
func (r *GORMOrderRepository) GetRecent(limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	return orders, nil
}

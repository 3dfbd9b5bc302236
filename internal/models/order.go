package models

import "time"

// OrderStatus is the lifecycle stage of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusAssigned  OrderStatus = "assigned"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every recognized status, in happy-path order with
// cancelled last.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusAssigned, StatusPickedUp, StatusInTransit, StatusDelivered,
		StatusCancelled,
	}
}

// IsValid reports whether s is one of the nine recognized statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusAssigned, StatusPickedUp, StatusInTransit, StatusDelivered,
		StatusCancelled:
		return true
	}
	return false
}

// PendingStatuses are the stages counted as "pending" on the dashboard.
func PendingStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing}
}

// Order represents a customer's placed purchase, tracked through delivery.
// Orders are created upstream by the customer-facing ordering flow; this
// system only mutates status and driver assignment and never deletes them.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber   string      `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	UserID        string      `json:"user_id" gorm:"type:varchar(36)"`
	DriverID      *string     `json:"driver_id" gorm:"type:varchar(36)"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(20)"`
	Subtotal      float64     `json:"subtotal"`
	DeliveryFee   float64     `json:"delivery_fee"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"` // subtotal + delivery_fee - discount, maintained upstream
	PaymentMethod string      `json:"payment_method" gorm:"type:varchar(20)"`
	PaymentStatus string      `json:"payment_status" gorm:"type:varchar(20)"`
	AddressID     string      `json:"address_id" gorm:"type:varchar(36)"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Customer *User       `json:"customer,omitempty" gorm:"foreignKey:UserID"`
	Driver   *User       `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Address  *Address    `json:"address,omitempty" gorm:"foreignKey:AddressID;references:ID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a product snapshot captured at order time. Immutable once
// created.
type OrderItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string  `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID   string  `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string  `json:"product_name" gorm:"type:varchar(100)"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Address is a delivery address attached to an order.
type Address struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string `json:"user_id" gorm:"index;type:varchar(36)"`
	AddressLine1 string `json:"address_line1" gorm:"type:varchar(255)"`
	AddressLine2 string `json:"address_line2" gorm:"type:varchar(255)"`
	City         string `json:"city" gorm:"type:varchar(100)"`
	State        string `json:"state" gorm:"type:varchar(100)"`
	PostalCode   string `json:"postal_code" gorm:"type:varchar(20)"`
}

package models

import "time"

// User roles.
const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"
)

// User represents a person known to the platform: a customer, a delivery
// driver, or an admin operating this dashboard.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FullName  string    `json:"full_name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Phone     string    `json:"phone" gorm:"type:varchar(32)"`
	Role      string    `json:"role" gorm:"type:varchar(20)" validate:"omitempty,oneof=customer driver admin"`
	Password  string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, set for admins only
	CreatedAt time.Time `json:"created_at"`

	DriverDetails *DriverDetails `json:"driver_details,omitempty" gorm:"foreignKey:UserID"`
}

// DriverDetails carries the delivery-specific attributes of a driver user.
// Read-only from this system's perspective.
type DriverDetails struct {
	UserID      string `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	VehicleType string `json:"vehicle_type" gorm:"type:varchar(32)"`
	IsAvailable bool   `json:"is_available"`
}

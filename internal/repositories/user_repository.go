package repositories

import "zynkadmin/internal/models"

// UserRepository defines the interface for user data access. Customers and
// drivers are read-only from the dashboard's perspective; Create exists for
// admin registration, seeding and tests.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// GetAvailableDrivers returns users with role driver whose driver
	// details mark them available, with driver details embedded.
	GetAvailableDrivers() ([]models.User, error)
	CountByRole(role string) (int64, error)
	CountAvailableDrivers() (int64, error)
}

package repositories

import (
	"fmt"

	"zynkadmin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("DriverDetails").First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetAvailableDrivers retrieves driver users currently marked available,
// with their driver details embedded for the assignment picker.
func (r *GORMUserRepository) GetAvailableDrivers() ([]models.User, error) {
	var drivers []models.User
	err := r.db.Preload("DriverDetails").
		Joins("JOIN driver_details ON driver_details.user_id = users.id").
		Where("users.role = ? AND driver_details.is_available = ?", models.RoleDriver, true).
		Find(&drivers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get available drivers: %w", err)
	}
	return drivers, nil
}

// CountByRole returns the number of users with the given role.
func (r *GORMUserRepository) CountByRole(role string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

// CountAvailableDrivers returns the number of available drivers.
func (r *GORMUserRepository) CountAvailableDrivers() (int64, error) {
	var count int64
	err := r.db.Model(&models.DriverDetails{}).
		Where("is_available = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count available drivers: %w", err)
	}
	return count, nil
}

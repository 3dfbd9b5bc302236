package repositories

import (
	"fmt"
	"sync"
	"time"

	"zynkadmin/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MemoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("user with email %s already exists", user.Email)
		}
	}
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by their email.
func (r *MemoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s not found", email)
}

// GetByID returns a user by their ID.
func (r *MemoryUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found", id)
	}
	return &user, nil
}

// GetAvailableDrivers returns driver users currently marked available.
func (r *MemoryUserRepository) GetAvailableDrivers() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var drivers []models.User
	for _, user := range r.users {
		if user.Role == models.RoleDriver && user.DriverDetails != nil && user.DriverDetails.IsAvailable {
			drivers = append(drivers, user)
		}
	}
	return drivers, nil
}

// CountByRole returns the number of users with the given role.
func (r *MemoryUserRepository) CountByRole(role string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// CountAvailableDrivers returns the number of available drivers.
func (r *MemoryUserRepository) CountAvailableDrivers() (int64, error) {
	drivers, err := r.GetAvailableDrivers()
	if err != nil {
		return 0, err
	}
	return int64(len(drivers)), nil
}

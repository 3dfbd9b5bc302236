package repositories

import (
	"zynkadmin/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List returns products newest-first, optionally filtered by category
	// and by a case-insensitive substring match on name/description.
	List(categoryID, search string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	Count() (int64, error)
}

// CategoryRepository defines read access to the flat category list.
type CategoryRepository interface {
	// GetAll returns categories ordered by display order.
	GetAll() ([]models.Category, error)
}

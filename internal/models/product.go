package models

import "time"

// Product represents a catalog item managed by the dashboard.
// Deletion is a hard delete; there is no versioning or soft-delete.
type Product struct {
	ID            string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CategoryID    string   `json:"category_id" gorm:"index;type:varchar(36)" validate:"required"`
	Name          string   `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Description   string   `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	ImageURL      string   `json:"image_url" gorm:"type:varchar(500)"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,gt=0"`
	Unit          string   `json:"unit" gorm:"type:varchar(20)"` // e.g. piece, kg, litre
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	IsAvailable   bool     `json:"is_available"`
	IsFeatured    bool     `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// Category is a flat catalog grouping, read-only in this system and ordered
// by DisplayOrder wherever it is listed.
type Category struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string `json:"name" gorm:"type:varchar(100)"`
	Slug         string `json:"slug" gorm:"uniqueIndex;type:varchar(100)"`
	IconURL      string `json:"icon_url" gorm:"type:varchar(500)"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

package services

import (
	"fmt"
	"strconv"
	"strings"

	"zynkadmin/internal/models"
	"zynkadmin/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ProductForm carries raw catalog form input. Numeric fields arrive as text
// and are parsed during validation; a parse failure is a validation error,
// never a silent zero.
type ProductForm struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	Price         string `json:"price"`
	OriginalPrice string `json:"original_price"`
	Unit          string `json:"unit"`
	StockQuantity string `json:"stock_quantity"`
	ImageURL      string `json:"image_url"`
	IsAvailable   bool   `json:"is_available"`
	IsFeatured    bool   `json:"is_featured"`
}

// ValidationError reports per-field form problems caught before any
// persistence call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ProductService translates raw form input into persisted product rows.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	validate     *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		validate:     validator.New(),
	}
}

// ListProducts retrieves products, optionally filtered by category and a
// name/description search term.
func (s *ProductService) ListProducts(categoryID, search string) ([]models.Product, error) {
	return s.productRepo.List(categoryID, search)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// ListCategories retrieves all categories ordered by display order.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// CreateProduct parses and validates the form, then persists a new product.
// The product is only written if the form parses cleanly.
func (s *ProductService) CreateProduct(form ProductForm) (*models.Product, error) {
	product, err := s.parseForm(form)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct parses and validates the form, then updates the product
// with the given ID.
func (s *ProductService) UpdateProduct(id string, form ProductForm) (*models.Product, error) {
	product, err := s.parseForm(form)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if err := s.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product by its ID. Hard delete, irreversible.
func (s *ProductService) DeleteProduct(id string) error {
	return s.productRepo.Delete(id)
}

// parseForm converts the raw form into a Product, collecting every field
// problem so the caller sees them all at once.
func (s *ProductService) parseForm(form ProductForm) (*models.Product, error) {
	fields := make(map[string]string)

	if strings.TrimSpace(form.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(form.CategoryID) == "" {
		fields["category_id"] = "category is required"
	}

	var price float64
	if strings.TrimSpace(form.Price) == "" {
		fields["price"] = "price is required"
	} else {
		v, err := strconv.ParseFloat(strings.TrimSpace(form.Price), 64)
		if err != nil {
			fields["price"] = fmt.Sprintf("price %q is not a valid number", form.Price)
		} else {
			price = v
		}
	}

	var originalPrice *float64
	if strings.TrimSpace(form.OriginalPrice) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(form.OriginalPrice), 64)
		if err != nil {
			fields["original_price"] = fmt.Sprintf("original price %q is not a valid number", form.OriginalPrice)
		} else {
			originalPrice = &v
		}
	}

	var stock int
	if strings.TrimSpace(form.StockQuantity) == "" {
		fields["stock_quantity"] = "stock quantity is required"
	} else {
		v, err := strconv.Atoi(strings.TrimSpace(form.StockQuantity))
		if err != nil {
			fields["stock_quantity"] = fmt.Sprintf("stock quantity %q is not a valid integer", form.StockQuantity)
		} else {
			stock = v
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	unit := form.Unit
	if unit == "" {
		unit = "piece"
	}

	product := &models.Product{
		Name:          strings.TrimSpace(form.Name),
		Description:   form.Description,
		CategoryID:    form.CategoryID,
		Price:         price,
		OriginalPrice: originalPrice,
		Unit:          unit,
		StockQuantity: stock,
		ImageURL:      form.ImageURL,
		IsAvailable:   form.IsAvailable,
		IsFeatured:    form.IsFeatured,
	}

	if err := s.validate.Struct(product); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		for _, e := range validationErrors {
			fields[strings.ToLower(e.Field())] = fmt.Sprintf("field '%s' failed on the '%s' rule", e.Field(), e.Tag())
		}
		return nil, &ValidationError{Fields: fields}
	}

	return product, nil
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"zynkadmin/internal/handlers"
	"zynkadmin/internal/middleware"
	"zynkadmin/internal/models"
	"zynkadmin/internal/repositories"
	"zynkadmin/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with an isolated in-memory SQLite
// database and all handlers/services wired like main.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory database")

	err = db.AutoMigrate(
		&models.User{}, &models.DriverDetails{}, &models.Category{},
		&models.Product{}, &models.Address{}, &models.Order{}, &models.OrderItem{},
	)
	require.NoError(t, err, "failed to auto-migrate database")

	orderRepo := repositories.NewGORMOrderRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	orderService := services.NewOrderService(orderRepo, userRepo, nil) // nil for RabbitMQ client
	productService := services.NewProductService(productRepo, categoryRepo)
	dashboardService := services.NewDashboardService(orderRepo, productRepo, userRepo)
	authService := services.NewAuthService(userRepo, jwtSecret)

	orderHandler := handlers.NewOrderHandler(orderService)
	productHandler := handlers.NewProductHandler(productService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	adminRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	dashboardHandler.RegisterRoutes(adminRoutes)
	orderHandler.RegisterRoutes(adminRoutes)
	productHandler.RegisterRoutes(adminRoutes)

	seedTestData(t, db)

	return app, db
}

// seedTestData populates the store with a customer, an available driver,
// categories, products and two orders (one ready for assignment).
func seedTestData(t *testing.T, db *gorm.DB) {
	t.Helper()

	customer := models.User{ID: "user-1", Email: "alice@example.com", FullName: "Alice Moreno", Phone: "+1-555-0101", Role: models.RoleCustomer}
	driver := models.User{ID: "driver-1", Email: "marco@example.com", FullName: "Marco Reyes", Role: models.RoleDriver}
	offDutyDriver := models.User{ID: "driver-2", Email: "lena@example.com", FullName: "Lena Park", Role: models.RoleDriver}
	require.NoError(t, db.Create(&[]models.User{customer, driver, offDutyDriver}).Error)
	require.NoError(t, db.Create(&models.DriverDetails{UserID: "driver-1", VehicleType: "motorbike", IsAvailable: true}).Error)
	require.NoError(t, db.Create(&models.DriverDetails{UserID: "driver-2", VehicleType: "car", IsAvailable: false}).Error)

	categories := []models.Category{
		{ID: "cat-1", Name: "Groceries", Slug: "groceries", DisplayOrder: 1, IsActive: true},
		{ID: "cat-2", Name: "Beverages", Slug: "beverages", DisplayOrder: 2, IsActive: true},
	}
	require.NoError(t, db.Create(&categories).Error)

	products := []models.Product{
		{ID: "prod-1", CategoryID: "cat-1", Name: "Basmati Rice 5kg", Description: "Long grain rice", Price: 12.50, Unit: "bag", StockQuantity: 40, IsAvailable: true},
		{ID: "prod-2", CategoryID: "cat-2", Name: "Orange Juice 1L", Price: 3.99, Unit: "bottle", StockQuantity: 120, IsAvailable: true},
	}
	require.NoError(t, db.Create(&products).Error)

	address := models.Address{ID: "addr-1", UserID: "user-1", AddressLine1: "12 Harbor St", City: "Springfield", State: "IL", PostalCode: "62701"}
	require.NoError(t, db.Create(&address).Error)

	orders := []models.Order{
		{
			ID: "order-1", OrderNumber: "ZNK-1001", UserID: "user-1", AddressID: "addr-1",
			Status: models.StatusReady, Subtotal: 16.49, DeliveryFee: 2.00, Total: 18.49,
			PaymentMethod: "card", PaymentStatus: "paid",
			CreatedAt: time.Now().Add(-2 * time.Hour),
			Items: []models.OrderItem{
				{ID: "item-1", ProductID: "prod-1", ProductName: "Basmati Rice 5kg", UnitPrice: 12.50, Quantity: 1, TotalPrice: 12.50},
				{ID: "item-2", ProductID: "prod-2", ProductName: "Orange Juice 1L", UnitPrice: 3.99, Quantity: 1, TotalPrice: 3.99},
			},
		},
		{
			ID: "order-2", OrderNumber: "ZNK-1002", UserID: "user-1", AddressID: "addr-1",
			Status: models.StatusPending, Subtotal: 11.00, DeliveryFee: 2.00, Discount: 0.50, Total: 12.5,
			PaymentMethod: "cash", PaymentStatus: "pending",
			CreatedAt: time.Now().Add(-30 * time.Minute),
		},
	}
	require.NoError(t, db.Create(&orders).Error)
}

// registerAndLogin creates an admin account and returns a bearer token.
func registerAndLogin(t *testing.T, app *fiber.App) string {
	t.Helper()

	admin := map[string]string{
		"email":     "admin@example.com",
		"full_name": "Test Admin",
		"password":  "password123",
	}
	jsonBody, _ := json.Marshal(admin)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	credentials := map[string]string{
		"email":    "admin@example.com",
		"password": "password123",
	}
	jsonBody, _ = json.Marshal(credentials)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	require.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestOrderListAndFilter(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	// Unfiltered list: both seeded orders, newest first, with 2-decimal
	// currency rendering.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/orders", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	resp.Body.Close()
	require.Len(t, orders, 2)
	assert.Equal(t, "ZNK-1002", orders[0]["order_number"])
	assert.Equal(t, "ZNK-1001", orders[1]["order_number"])
	assert.Equal(t, "$12.50", orders[0]["total_display"])
	assert.Equal(t, "$18.49", orders[1]["total_display"])

	// Customer is embedded.
	customer, ok := orders[1]["customer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Alice Moreno", customer["full_name"])

	// Status filter returns only matching orders.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders?status=ready", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var readyOrders []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&readyOrders))
	resp.Body.Close()
	require.Len(t, readyOrders, 1)
	assert.Equal(t, "ZNK-1001", readyOrders[0]["order_number"])

	// Unrecognized filter is rejected.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders?status=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderDetailEmbeds(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/orders/order-1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var order map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()

	address, ok := order["address"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "12 Harbor St", address["address_line1"])

	items, ok := order["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	firstItem := items[0].(map[string]interface{})
	assert.Equal(t, "$12.50", firstItem["unit_price_display"])

	// Vanished order degrades to a 404, never a hard failure.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/order-99", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderStatusRoundTrip(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	// Every recognized status round-trips through update and read.
	for _, status := range models.OrderStatuses() {
		resp := doJSON(t, app, http.MethodPatch, "/api/v1/orders/order-2/status", token,
			map[string]string{"status": string(status)})
		assert.Equal(t, http.StatusOK, resp.StatusCode, "status %s should be accepted", status)
		resp.Body.Close()

		resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/order-2", token, nil)
		var order map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
		resp.Body.Close()
		assert.Equal(t, string(status), order["status"])
	}

	// Unrecognized status is rejected and the stored value is untouched.
	resp := doJSON(t, app, http.MethodPatch, "/api/v1/orders/order-2/status", token,
		map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/order-2", token, nil)
	var order map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()
	assert.Equal(t, string(models.StatusCancelled), order["status"]) // last accepted value

	// Unknown order reports not found.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/order-99/status", token,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDriverAssignment(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	// The picker lists only available drivers.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/drivers", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var drivers []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&drivers))
	resp.Body.Close()
	require.Len(t, drivers, 1)
	assert.Equal(t, "Marco Reyes", drivers[0]["full_name"])

	// Assignment on a pending order is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/order-2/driver", token,
		map[string]string{"driver_id": "driver-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// An unavailable driver is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/order-1/driver", token,
		map[string]string{"driver_id": "driver-2"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Happy path: driver and status land together.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/order-1/driver", token,
		map[string]string{"driver_id": "driver-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/order-1", token, nil)
	var order map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()
	assert.Equal(t, "driver-1", order["driver_id"])
	assert.Equal(t, string(models.StatusAssigned), order["status"])
	driver, ok := order["driver"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Marco Reyes", driver["full_name"])

	// A second assignment is rejected: the order already has a driver.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/order-1/driver", token,
		map[string]string{"driver_id": "driver-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestProductCRUD(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	// Create with text numerics parses them into numbers.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":           "Salted Peanuts 200g",
		"category_id":    "cat-1",
		"price":          "19.99",
		"stock_quantity": "10",
		"unit":           "pack",
		"is_available":   true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 19.99, created.Price)
	assert.Equal(t, 10, created.StockQuantity)

	// Non-numeric price is rejected before any persistence call.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":           "Broken Product",
		"category_id":    "cat-1",
		"price":          "abc",
		"stock_quantity": "5",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products?q=broken", token, nil)
	var missing []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&missing))
	resp.Body.Close()
	assert.Empty(t, missing)

	// Update.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/"+created.ID, token, map[string]interface{}{
		"name":           "Salted Peanuts 250g",
		"category_id":    "cat-1",
		"price":          "2.25",
		"stock_quantity": "60",
		"unit":           "pack",
		"is_available":   true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, "Salted Peanuts 250g", updated.Name)
	assert.Equal(t, 2.25, updated.Price)

	// Search filter.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products?q=peanuts", token, nil)
	var found []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	resp.Body.Close()
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	// Category filter.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products?category=cat-2", token, nil)
	var beverages []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&beverages))
	resp.Body.Close()
	require.Len(t, beverages, 1)
	assert.Equal(t, "Orange Juice 1L", beverages[0].Name)

	// Delete removes the product from subsequent fetches.
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil)
	var remaining []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&remaining))
	resp.Body.Close()
	for _, p := range remaining {
		assert.NotEqual(t, created.ID, p.ID)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCategoryList(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/categories", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	resp.Body.Close()
	require.Len(t, categories, 2)
	assert.Equal(t, "Groceries", categories[0].Name)
	assert.Equal(t, "Beverages", categories[1].Name)
}

func TestDashboard(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Stats        services.DashboardStats  `json:"stats"`
		RecentOrders []map[string]interface{} `json:"recent_orders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()

	assert.Equal(t, int64(2), payload.Stats.TotalOrders)
	assert.Equal(t, 18.49, payload.Stats.TotalRevenue) // only the paid order
	assert.Equal(t, int64(2), payload.Stats.TotalProducts)
	assert.Equal(t, int64(1), payload.Stats.TotalUsers) // customers only
	assert.Equal(t, int64(1), payload.Stats.ActiveDrivers)
	assert.Equal(t, int64(1), payload.Stats.PendingOrders) // the pending order

	require.Len(t, payload.RecentOrders, 2)
	assert.Equal(t, "ZNK-1002", payload.RecentOrders[0]["order_number"])
}

func TestEndpointsWithoutAuth(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/orders", "/api/v1/products", "/api/v1/drivers"} {
		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "path %s should require auth", path)
		resp.Body.Close()
	}
}

func TestAdminRegistrationClosedAfterBootstrap(t *testing.T) {
	app, _ := setupApp(t)
	registerAndLogin(t, app)

	// The public endpoint only mints the first admin; everyone after is
	// refused.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":     "second@example.com",
		"full_name": "Second Admin",
		"password":  "password456",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestNonAdminTokenForbidden(t *testing.T) {
	app, _ := setupApp(t)

	// A driver token signed with the service secret still cannot reach the
	// admin surface.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "driver-1",
		"email":   "marco@example.com",
		"role":    models.RoleDriver,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(viper.GetString("JWT_SECRET")))
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/orders"} {
		resp := doJSON(t, app, http.MethodGet, path, signed, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "path %s should require the admin role", path)
		resp.Body.Close()
	}
}

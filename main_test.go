package main

import (
	"testing"

	"zynkadmin/internal/models"
	"zynkadmin/internal/repositories"
	"zynkadmin/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMemoryStack wires the seeded in-memory repositories the way main does
// when DATABASE_URL is not set.
func buildMemoryStack() (*repositories.MemoryOrderRepository, *repositories.MemoryProductRepository, *repositories.MemoryUserRepository, *repositories.MemoryCategoryRepository) {
	users := repositories.NewMemoryUserRepository()
	orders := repositories.NewMemoryOrderRepository(users)
	products := repositories.NewMemoryProductRepository()
	categories := repositories.NewMemoryCategoryRepository(demoCategories())
	seedDemoData(users, products, orders)
	return orders, products, users, categories
}

func TestSeededDemoData(t *testing.T) {
	orders, products, users, categories := buildMemoryStack()

	orderList, err := orders.List("")
	require.NoError(t, err)
	assert.Len(t, orderList, 2)
	// Newest first.
	assert.Equal(t, "ZNK-1002", orderList[0].OrderNumber)

	productList, err := products.List("", "")
	require.NoError(t, err)
	assert.Len(t, productList, 3)

	drivers, err := users.GetAvailableDrivers()
	require.NoError(t, err)
	assert.Len(t, drivers, 1)

	categoryList, err := categories.GetAll()
	require.NoError(t, err)
	require.Len(t, categoryList, 3)
	assert.Equal(t, "Groceries", categoryList[0].Name)
}

func TestDemoOrderLifecycle(t *testing.T) {
	orders, products, users, _ := buildMemoryStack()

	orderService := services.NewOrderService(orders, users, nil)
	dashboardService := services.NewDashboardService(orders, products, users)

	// The seeded ready order can be assigned to the seeded driver;
	// driver and status land together.
	require.NoError(t, orderService.AssignDriver("order-1", "driver-1"))

	assigned, err := orders.GetByID("order-1")
	require.NoError(t, err)
	require.NotNil(t, assigned.DriverID)
	assert.Equal(t, "driver-1", *assigned.DriverID)
	assert.Equal(t, models.StatusAssigned, assigned.Status)

	// A second assignment is rejected.
	err = orderService.AssignDriver("order-1", "driver-1")
	assert.Error(t, err)

	// The pending order moves through the lifecycle.
	require.NoError(t, orderService.UpdateStatus("order-2", models.StatusConfirmed))
	confirmed, err := orders.GetByID("order-2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	stats, err := dashboardService.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, 18.49, stats.TotalRevenue)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.PendingOrders) // the confirmed order still counts as pending work
}

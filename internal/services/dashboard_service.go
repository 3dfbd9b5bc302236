package services

import (
	"fmt"

	"zynkadmin/internal/models"
	"zynkadmin/internal/repositories"
)

// DashboardStats is the aggregate payload for the dashboard landing page.
type DashboardStats struct {
	TotalOrders   int64   `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalProducts int64   `json:"total_products"`
	TotalUsers    int64   `json:"total_users"`
	ActiveDrivers int64   `json:"active_drivers"`
	PendingOrders int64   `json:"pending_orders"`
}

// DashboardService aggregates several independent read queries into the
// stats shown on the dashboard landing page.
type DashboardService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, userRepo repositories.UserRepository) *DashboardService {
	return &DashboardService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// GetStats runs the dashboard count/sum queries. Revenue counts only paid
// orders; pending orders covers the pending, confirmed and preparing stages.
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	totalOrders, err := s.orderRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	revenue, err := s.orderRepo.SumTotalByPaymentStatus("paid")
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	totalProducts, err := s.productRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	totalUsers, err := s.userRepo.CountByRole(models.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	activeDrivers, err := s.userRepo.CountAvailableDrivers()
	if err != nil {
		return nil, fmt.Errorf("failed to count drivers: %w", err)
	}

	pendingOrders, err := s.orderRepo.CountByStatuses(models.PendingStatuses())
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	return &DashboardStats{
		TotalOrders:   totalOrders,
		TotalRevenue:  revenue,
		TotalProducts: totalProducts,
		TotalUsers:    totalUsers,
		ActiveDrivers: activeDrivers,
		PendingOrders: pendingOrders,
	}, nil
}

// GetRecentOrders returns the most recent orders with the customer embedded.
func (s *DashboardService) GetRecentOrders(limit int) ([]models.Order, error) {
	return s.orderRepo.GetRecent(limit)
}

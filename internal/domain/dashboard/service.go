package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetEmployeeDashboard returns today's status, this month's summary and the last RecentDays of records
	GetEmployeeDashboard(ctx context.Context, employeeID string, now time.Time) (*EmployeeDashboardResponse, error)

	// GetManagerDashboard returns today's team summary with the weekly trend (manager)
	GetManagerDashboard(ctx context.Context, actor user.Actor, now time.Time) (*ManagerDashboardResponse, error)
}

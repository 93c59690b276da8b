package dashboard

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

// RecentDays is how far back the employee dashboard lists records.
const RecentDays = 7

// ========== EMPLOYEE DASHBOARD ==========

// EmployeeDashboardResponse is the self-service overview
type EmployeeDashboardResponse struct {
	Date         string                      `json:"date"`
	TodayStatus  string                      `json:"today_status"`
	MonthSummary attendance.MonthlySummary   `json:"month_summary"`
	Recent       []attendance.RecordResponse `json:"recent"`
}

// ========== MANAGER DASHBOARD ==========

// ManagerDashboardResponse is the team overview for today
type ManagerDashboardResponse struct {
	Date            string                      `json:"date"`
	TotalEmployees  int                         `json:"total_employees"`
	PresentToday    int                         `json:"present_today"`
	LateToday       int                         `json:"late_today"`
	AbsentEmployees []employee.IdentityResponse `json:"absent_employees"`
	WeekTrend       []attendance.TrendPoint     `json:"week_trend"`
	DeptWise        map[string]int              `json:"dept_wise"`
}

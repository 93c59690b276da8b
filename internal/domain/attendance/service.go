package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations.
// The current instant is always passed in by the caller.
type AttendanceService interface {
	// CheckIn opens today's record for the employee
	CheckIn(ctx context.Context, employeeID string, now time.Time) (RecordResponse, error)

	// CheckOut closes today's record, computing hours and the final status
	CheckOut(ctx context.Context, employeeID string, now time.Time) (RecordResponse, error)

	// GetToday returns today's record or the not-checked-in sentinel
	GetToday(ctx context.Context, employeeID string, now time.Time) (TodayResponse, error)

	// GetHistory returns the employee's records, newest first, paginated
	GetHistory(ctx context.Context, employeeID string, filter HistoryFilter) (ListResponse, error)

	// GetMonthlySummary returns the personal monthly summary
	GetMonthlySummary(ctx context.Context, employeeID string, req SummaryRequest, now time.Time) (MonthlySummary, error)

	// GetRangeForEmployee returns records dated within [startDate, endDate]
	GetRangeForEmployee(ctx context.Context, employeeID string, startDate string, endDate string) ([]Record, error)

	// ListAll returns every employee's records joined with roster identity (manager)
	ListAll(ctx context.Context, actor user.Actor, filter TeamFilter) (TeamListResponse, error)

	// GetForEmployee returns one employee's records by roster id or employee code (manager)
	GetForEmployee(ctx context.Context, actor user.Actor, ref string, filter EmployeeRecordsFilter) (EmployeeAttendanceResponse, error)

	// GetTeamSummary returns today's team presence, lateness and absence (manager)
	GetTeamSummary(ctx context.Context, actor user.Actor, now time.Time) (TeamSummaryResponse, error)

	// SummarizeToday computes the team daily summary without a role check, for
	// background jobs that run outside any request
	SummarizeToday(ctx context.Context, now time.Time) (TeamDailySummary, error)

	// GetWeeklyTrend returns per-day record counts for the last 7 days (manager)
	GetWeeklyTrend(ctx context.Context, actor user.Actor, now time.Time) ([]TrendPoint, error)

	// Export returns CSV-ready rows for the requested range without pagination (manager)
	Export(ctx context.Context, actor user.Actor, req ExportRequest, now time.Time) (ExportResult, error)
}

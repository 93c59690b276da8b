package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendance.AttendanceService
	location *time.Location
}

func NewDashboardService(attendanceService attendance.AttendanceService, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		AttendanceService: attendanceService,
		location:          loc,
	}
}

// GetEmployeeDashboard runs its three reads in parallel; any failure fails the whole response.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, employeeID string, now time.Time) (*dashboard.EmployeeDashboardResponse, error) {
	local := now.In(s.location)
	today := local.Format(attendance.DateLayout)
	since := local.AddDate(0, 0, -dashboard.RecentDays).Format(attendance.DateLayout)

	var (
		todayView attendance.TodayResponse
		summary   attendance.MonthlySummary
		recent    []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's status
	g.Go(func() error {
		var err error
		todayView, err = s.AttendanceService.GetToday(gCtx, employeeID, now)
		return err
	})

	// 2. This month's summary
	g.Go(func() error {
		var err error
		summary, err = s.AttendanceService.GetMonthlySummary(gCtx, employeeID, attendance.SummaryRequest{}, now)
		return err
	})

	// 3. Recent records
	g.Go(func() error {
		var err error
		recent, err = s.AttendanceService.GetRangeForEmployee(gCtx, employeeID, since, today)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(recent, func(i, j int) bool { return recent[i].Date > recent[j].Date })

	return &dashboard.EmployeeDashboardResponse{
		Date:         today,
		TodayStatus:  todayView.Status,
		MonthSummary: summary,
		Recent:       attendance.ToRecordResponses(recent),
	}, nil
}

// GetManagerDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetManagerDashboard(ctx context.Context, actor user.Actor, now time.Time) (*dashboard.ManagerDashboardResponse, error) {
	if err := actor.RequireManager(); err != nil {
		return nil, err
	}

	var (
		summary attendance.TeamSummaryResponse
		trend   []attendance.TrendPoint
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Team summary for today
	g.Go(func() error {
		var err error
		summary, err = s.AttendanceService.GetTeamSummary(gCtx, actor, now)
		return err
	})

	// 2. Weekly trend
	g.Go(func() error {
		var err error
		trend, err = s.AttendanceService.GetWeeklyTrend(gCtx, actor, now)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.ManagerDashboardResponse{
		Date:            summary.Date,
		TotalEmployees:  summary.TotalEmployees,
		PresentToday:    summary.PresentToday,
		LateToday:       summary.LateToday,
		AbsentEmployees: summary.AbsentToday,
		WeekTrend:       trend,
		DeptWise:        summary.DeptCounts,
	}, nil
}

package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const (
	opCheckIn  = "check_in"
	opCheckOut = "check_out"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	classifier *attendance.Classifier
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	classifier *attendance.Classifier,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		classifier:           classifier,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string, now time.Time) (attendance.RecordResponse, error) {
	date := a.classifier.DateOf(now)

	existing, err := a.AttendanceRepository.FindOne(ctx, employeeID, date)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil && existing.IsCheckedIn() {
		metrics.RecordRejected(opCheckIn, rejectReason(attendance.ErrAlreadyCheckedIn))
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedIn
	}

	status, err := a.classifier.ClassifyCheckIn(now, date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	checkIn := now.UTC()
	saved, err := a.AttendanceRepository.UpsertCheckIn(ctx, attendance.Record{
		EmployeeID:  employeeID,
		Date:        date,
		CheckInTime: &checkIn,
		Status:      status,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			metrics.RecordRejected(opCheckIn, rejectReason(err))
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to save check-in: %w", err)
	}

	metrics.RecordCheckIn(string(saved.Status))
	slog.InfoContext(ctx, "employee checked in", "employee_id", employeeID, "date", date, "status", saved.Status)

	return attendance.ToRecordResponse(saved), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string, now time.Time) (attendance.RecordResponse, error) {
	date := a.classifier.DateOf(now)

	existing, err := a.AttendanceRepository.FindOne(ctx, employeeID, date)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil || !existing.IsCheckedIn() {
		metrics.RecordRejected(opCheckOut, rejectReason(attendance.ErrNotCheckedIn))
		return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.IsCheckedOut() {
		metrics.RecordRejected(opCheckOut, rejectReason(attendance.ErrAlreadyCheckedOut))
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
	}

	totalHours, err := a.classifier.ComputeCheckout(*existing.CheckInTime, now)
	if err != nil {
		metrics.RecordRejected(opCheckOut, rejectReason(err))
		return attendance.RecordResponse{}, err
	}
	status := a.classifier.ClassifyCheckOut(existing.Status, totalHours)

	checkOut := now.UTC()
	saved, err := a.AttendanceRepository.UpdateCheckOut(ctx, attendance.Record{
		EmployeeID:   employeeID,
		Date:         date,
		CheckOutTime: &checkOut,
		TotalHours:   totalHours,
		Status:       status,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) || errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			metrics.RecordRejected(opCheckOut, rejectReason(err))
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to save check-out: %w", err)
	}

	metrics.RecordCheckOut(string(saved.Status), saved.TotalHours)
	slog.InfoContext(ctx, "employee checked out",
		"employee_id", employeeID, "date", date, "status", saved.Status, "total_hours", saved.TotalHours)

	return attendance.ToRecordResponse(saved), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string, now time.Time) (attendance.TodayResponse, error) {
	date := a.classifier.DateOf(now)

	existing, err := a.AttendanceRepository.FindOne(ctx, employeeID, date)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil {
		return attendance.TodayResponse{
			Date:   date,
			Status: string(attendance.StatusNotCheckedIn),
		}, nil
	}

	resp := attendance.ToRecordResponse(*existing)
	return attendance.TodayResponse{
		Date:       date,
		Status:     string(existing.Status),
		Attendance: &resp,
	}, nil
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, employeeID string, filter attendance.HistoryFilter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	recordFilter := attendance.RecordFilter{EmployeeID: &employeeID, SortOrder: "desc"}
	if filter.Month != nil && *filter.Month != "" {
		recordFilter.Month = filter.Month
	}

	total, err := a.AttendanceRepository.Count(ctx, recordFilter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to count attendance history: %w", err)
	}
	records, err := a.AttendanceRepository.List(ctx, recordFilter, filter.Page, filter.Limit)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	totalPages, showing := attendance.Paginate(total, filter.Page, filter.Limit)
	return attendance.ListResponse{
		Records:    attendance.ToRecordResponses(records),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
	}, nil
}

// GetMonthlySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, employeeID string, req attendance.SummaryRequest, now time.Time) (attendance.MonthlySummary, error) {
	month, err := req.Resolve(now.In(a.classifier.Location))
	if err != nil {
		return attendance.MonthlySummary{}, err
	}

	records, err := a.AttendanceRepository.FindRange(ctx, attendance.RecordFilter{
		EmployeeID: &employeeID,
		Month:      &month,
	})
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to get monthly attendance: %w", err)
	}

	return attendance.SummarizeMonth(month, records), nil
}

// GetRangeForEmployee implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetRangeForEmployee(ctx context.Context, employeeID string, startDate string, endDate string) ([]attendance.Record, error) {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(startDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start", Message: "start must be in YYYY-MM-DD format"})
	}
	if _, ok := validator.IsValidDate(endDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "end must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if endDate < startDate {
		return []attendance.Record{}, nil
	}

	records, err := a.AttendanceRepository.FindRange(ctx, attendance.RecordFilter{
		EmployeeID: &employeeID,
		DateFrom:   &startDate,
		DateTo:     &endDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance range: %w", err)
	}
	return records, nil
}

// ListAll implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAll(ctx context.Context, actor user.Actor, filter attendance.TeamFilter) (attendance.TeamListResponse, error) {
	if err := actor.RequireManager(); err != nil {
		return attendance.TeamListResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.TeamListResponse{}, err
	}

	recordFilter, err := a.teamRecordFilter(ctx, filter.EmployeeID, filter.Date, filter.Status)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return emptyTeamPage(filter.Page, filter.Limit), nil
		}
		return attendance.TeamListResponse{}, err
	}
	recordFilter.SortOrder = "desc"

	total, err := a.AttendanceRepository.Count(ctx, recordFilter)
	if err != nil {
		return attendance.TeamListResponse{}, fmt.Errorf("failed to count team attendance: %w", err)
	}
	records, err := a.AttendanceRepository.List(ctx, recordFilter, filter.Page, filter.Limit)
	if err != nil {
		return attendance.TeamListResponse{}, fmt.Errorf("failed to list team attendance: %w", err)
	}

	owners, err := a.ownersByID(ctx)
	if err != nil {
		return attendance.TeamListResponse{}, err
	}

	items := make([]attendance.TeamRecordResponse, 0, len(records))
	for _, r := range records {
		item := attendance.TeamRecordResponse{Attendance: attendance.ToRecordResponse(r)}
		if owner, ok := owners[r.EmployeeID]; ok {
			identity := employee.ToIdentity(owner)
			item.Employee = &identity
		}
		items = append(items, item)
	}

	totalPages, showing := attendance.Paginate(total, filter.Page, filter.Limit)
	return attendance.TeamListResponse{
		Records:    items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
	}, nil
}

// GetForEmployee implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetForEmployee(ctx context.Context, actor user.Actor, ref string, filter attendance.EmployeeRecordsFilter) (attendance.EmployeeAttendanceResponse, error) {
	if err := actor.RequireManager(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	owner, err := a.resolveEmployee(ctx, ref)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	recordFilter, err := a.teamRecordFilter(ctx, nil, filter.Date, filter.Status)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}
	recordFilter.EmployeeID = &owner.ID
	recordFilter.SortOrder = "desc"

	records, err := a.AttendanceRepository.FindRange(ctx, recordFilter)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, fmt.Errorf("failed to get employee attendance: %w", err)
	}

	return attendance.EmployeeAttendanceResponse{
		Employee: employee.ToIdentity(owner),
		Records:  attendance.ToRecordResponses(records),
	}, nil
}

// GetTeamSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTeamSummary(ctx context.Context, actor user.Actor, now time.Time) (attendance.TeamSummaryResponse, error) {
	if err := actor.RequireManager(); err != nil {
		return attendance.TeamSummaryResponse{}, err
	}

	summary, err := a.SummarizeToday(ctx, now)
	if err != nil {
		return attendance.TeamSummaryResponse{}, err
	}
	return attendance.ToTeamSummaryResponse(summary), nil
}

// SummarizeToday computes the team daily summary for the date of now without a
// role check. Used by the manager operations and the snapshot job.
func (a *AttendanceServiceImpl) SummarizeToday(ctx context.Context, now time.Time) (attendance.TeamDailySummary, error) {
	date := a.classifier.DateOf(now)

	everyone, err := a.EmployeeRepository.ListEmployees(ctx, nil)
	if err != nil {
		return attendance.TeamDailySummary{}, fmt.Errorf("failed to list employees: %w", err)
	}
	roster := make([]employee.Employee, 0, len(everyone))
	owners := make(map[string]employee.Employee, len(everyone))
	for _, e := range everyone {
		owners[e.ID] = e
		if e.Role == user.RoleEmployee {
			roster = append(roster, e)
		}
	}

	records, err := a.AttendanceRepository.FindRange(ctx, attendance.RecordFilter{Date: &date})
	if err != nil {
		return attendance.TeamDailySummary{}, fmt.Errorf("failed to get today's team attendance: %w", err)
	}

	return attendance.SummarizeTeamDay(date, records, roster, owners), nil
}

// GetWeeklyTrend implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetWeeklyTrend(ctx context.Context, actor user.Actor, now time.Time) ([]attendance.TrendPoint, error) {
	if err := actor.RequireManager(); err != nil {
		return nil, err
	}

	end := now.In(a.classifier.Location)
	from, to := attendance.TrendWindow(end)
	records, err := a.AttendanceRepository.FindRange(ctx, attendance.RecordFilter{
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly attendance: %w", err)
	}

	return attendance.WeeklyTrend(end, records), nil
}

// Export implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Export(ctx context.Context, actor user.Actor, req attendance.ExportRequest, now time.Time) (attendance.ExportResult, error) {
	if err := actor.RequireManager(); err != nil {
		return attendance.ExportResult{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.ExportResult{}, err
	}

	start, end := req.Window(a.classifier.DateOf(now))

	recordFilter, err := a.teamRecordFilter(ctx, req.EmployeeID, req.Date, req.Status)
	if err != nil {
		return attendance.ExportResult{}, err
	}
	recordFilter.DateFrom = &start
	recordFilter.DateTo = &end
	recordFilter.SortOrder = "asc"

	records, err := a.AttendanceRepository.FindRange(ctx, recordFilter)
	if err != nil {
		return attendance.ExportResult{}, fmt.Errorf("failed to get attendance for export: %w", err)
	}

	owners, err := a.ownersByID(ctx)
	if err != nil {
		return attendance.ExportResult{}, err
	}

	return attendance.ExportResult{
		StartDate: start,
		EndDate:   end,
		Rows:      attendance.BuildExportRows(records, owners),
	}, nil
}

// teamRecordFilter maps the manager filters onto a RecordFilter. An employee
// reference that matches nobody returns employee.ErrEmployeeNotFound.
func (a *AttendanceServiceImpl) teamRecordFilter(ctx context.Context, employeeRef, date, status *string) (attendance.RecordFilter, error) {
	var filter attendance.RecordFilter

	if employeeRef != nil && *employeeRef != "" {
		owner, err := a.resolveEmployee(ctx, *employeeRef)
		if err != nil {
			return attendance.RecordFilter{}, err
		}
		filter.EmployeeID = &owner.ID
	}
	if date != nil && *date != "" {
		filter.Date = date
	}
	if status != nil && *status != "" {
		s := attendance.Status(*status)
		filter.Status = &s
	}

	return filter, nil
}

// resolveEmployee accepts either a roster id or an employee code.
func (a *AttendanceServiceImpl) resolveEmployee(ctx context.Context, ref string) (employee.Employee, error) {
	var (
		owner employee.Employee
		err   error
	)
	if validator.IsValidUUID(ref) {
		owner, err = a.EmployeeRepository.GetByID(ctx, ref)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			owner, err = a.EmployeeRepository.GetByEmployeeCode(ctx, ref)
		}
	} else {
		owner, err = a.EmployeeRepository.GetByEmployeeCode(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to resolve employee %q: %w", ref, err)
	}
	return owner, nil
}

func (a *AttendanceServiceImpl) ownersByID(ctx context.Context) (map[string]employee.Employee, error) {
	everyone, err := a.EmployeeRepository.ListEmployees(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	owners := make(map[string]employee.Employee, len(everyone))
	for _, e := range everyone {
		owners[e.ID] = e
	}
	return owners, nil
}

func emptyTeamPage(page, limit int) attendance.TeamListResponse {
	totalPages, showing := attendance.Paginate(0, page, limit)
	return attendance.TeamListResponse{
		Records:    []attendance.TeamRecordResponse{},
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Showing:    showing,
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		return "already_checked_out"
	case errors.Is(err, attendance.ErrNotCheckedIn):
		return "not_checked_in"
	case errors.Is(err, attendance.ErrInvalidRange):
		return "invalid_range"
	default:
		return "other"
	}
}

package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const (
	DefaultHistoryLimit = 50
	DefaultTeamLimit    = 100
	MaxLimit            = 500

	// DefaultExportDays is how far back an export reaches when no start is given.
	DefaultExportDays = 30
)

// ========================================
// RECORD
// ========================================

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       string  `json:"status"`
	TotalHours   float64 `json:"total_hours"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func ToRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		Date:         r.Date,
		CheckInTime:  FormatTimestamp(r.CheckInTime),
		CheckOutTime: FormatTimestamp(r.CheckOutTime),
		Status:       string(r.Status),
		TotalHours:   r.TotalHours,
		CreatedAt:    r.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ToRecordResponses(records []Record) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, ToRecordResponse(r))
	}
	return responses
}

// TodayResponse never errors on absence: a missing record yields
// StatusNotCheckedIn and a nil Attendance.
type TodayResponse struct {
	Date       string          `json:"date"`
	Status     string          `json:"status"`
	Attendance *RecordResponse `json:"attendance"`
}

// ========================================
// HISTORY
// ========================================

type HistoryFilter struct {
	Month *string `json:"month,omitempty"` // YYYY-MM
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && *f.Month != "" {
		if _, ok := validator.IsValidMonth(*f.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}
	errs = append(errs, validatePaging(&f.Page, &f.Limit, DefaultHistoryLimit)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListResponse struct {
	Records    []RecordResponse `json:"records"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Showing    string           `json:"showing"`
}

// ========================================
// MONTHLY SUMMARY
// ========================================

// SummaryRequest selects a month either as "YYYY-MM" or as month number + year.
type SummaryRequest struct {
	Month       string `json:"month"`
	MonthNumber *int   `json:"month_number,omitempty"`
	Year        *int   `json:"year,omitempty"`
}

// Resolve returns the selected month as YYYY-MM, defaulting to the month of now.
func (r SummaryRequest) Resolve(now time.Time) (string, error) {
	if r.Month != "" {
		if _, ok := validator.IsValidMonth(r.Month); !ok {
			return "", validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
		}
		return r.Month, nil
	}

	var errs validator.ValidationErrors
	year, month := now.Year(), int(now.Month())
	if r.MonthNumber != nil {
		if *r.MonthNumber < 1 || *r.MonthNumber > 12 {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
		}
		month = *r.MonthNumber
	}
	if r.Year != nil {
		if *r.Year < 1970 || *r.Year > 9999 {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 1970 and 9999"})
		}
		year = *r.Year
	}
	if len(errs) > 0 {
		return "", errs
	}

	return fmt.Sprintf("%04d-%02d", year, month), nil
}

// ========================================
// TEAM (manager)
// ========================================

type TeamFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"` // roster id or employee code
	Date       *string `json:"date,omitempty"`
	Status     *string `json:"status,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *TeamFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateDateAndStatus(f.Date, f.Status)...)
	errs = append(errs, validatePaging(&f.Page, &f.Limit, DefaultTeamLimit)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TeamRecordResponse struct {
	Attendance RecordResponse             `json:"attendance"`
	Employee   *employee.IdentityResponse `json:"employee"`
}

type TeamListResponse struct {
	Records    []TeamRecordResponse `json:"records"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Showing    string               `json:"showing"`
}

// EmployeeRecordsFilter narrows a single employee's records for managers.
type EmployeeRecordsFilter struct {
	Date   *string `json:"date,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (f *EmployeeRecordsFilter) Validate() error {
	if errs := validateDateAndStatus(f.Date, f.Status); len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeAttendanceResponse struct {
	Employee employee.IdentityResponse `json:"employee"`
	Records  []RecordResponse          `json:"records"`
}

type TeamSummaryResponse struct {
	Date           string                      `json:"date"`
	TotalEmployees int                         `json:"total_employees"`
	PresentToday   int                         `json:"present_today"`
	LateToday      int                         `json:"late_today"`
	AbsentToday    []employee.IdentityResponse `json:"absent_today"`
	DeptCounts     map[string]int              `json:"dept_counts"`
}

func ToTeamSummaryResponse(s TeamDailySummary) TeamSummaryResponse {
	absent := make([]employee.IdentityResponse, 0, len(s.AbsentToday))
	for _, e := range s.AbsentToday {
		absent = append(absent, employee.ToIdentity(e))
	}
	return TeamSummaryResponse{
		Date:           s.Date,
		TotalEmployees: s.TotalEmployees,
		PresentToday:   s.PresentToday,
		LateToday:      s.LateToday,
		AbsentToday:    absent,
		DeptCounts:     s.DeptCounts,
	}
}

// ========================================
// EXPORT (manager)
// ========================================

type ExportRequest struct {
	Start      *string `json:"start,omitempty"`
	End        *string `json:"end,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`
	Status     *string `json:"status,omitempty"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var okStart, okEnd bool
	if r.Start != nil && *r.Start != "" {
		if start, okStart = validator.IsValidDate(*r.Start); !okStart {
			errs = append(errs, validator.ValidationError{Field: "start", Message: "start must be in YYYY-MM-DD format"})
		}
	}
	if r.End != nil && *r.End != "" {
		if end, okEnd = validator.IsValidDate(*r.End); !okEnd {
			errs = append(errs, validator.ValidationError{Field: "end", Message: "end must be in YYYY-MM-DD format"})
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "end must not be before start"})
	}
	errs = append(errs, validateDateAndStatus(r.Date, r.Status)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Window returns the inclusive export range. end defaults to today; start
// defaults to DefaultExportDays before end.
func (r ExportRequest) Window(today string) (start string, end string) {
	end = today
	if r.End != nil && *r.End != "" {
		end = *r.End
	}
	start = ""
	if r.Start != nil && *r.Start != "" {
		start = *r.Start
	} else if endDate, ok := validator.IsValidDate(end); ok {
		start = endDate.AddDate(0, 0, -DefaultExportDays).Format(DateLayout)
	}
	return start, end
}

type ExportResult struct {
	StartDate string
	EndDate   string
	Rows      []ExportRow
}

// Filename is the download name, e.g. attendance_20240101_20240131.csv
func (r ExportResult) Filename() string {
	compact := func(d string) string {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			return d
		}
		return t.Format("20060102")
	}
	return fmt.Sprintf("attendance_%s_%s.csv", compact(r.StartDate), compact(r.EndDate))
}

// ========================================
// helpers
// ========================================

func validatePaging(page *int, limit *int, defaultLimit int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if *page == 0 {
		*page = 1
	}

	if *limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if *limit == 0 {
		*limit = defaultLimit
	}
	if *limit > MaxLimit {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: fmt.Sprintf("limit must not exceed %d", MaxLimit)})
	}

	return errs
}

func validateDateAndStatus(date *string, status *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if date != nil && *date != "" {
		if _, ok := validator.IsValidDate(*date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}
	if status != nil && *status != "" && !Status(*status).IsFilterable() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of present, late, half-day, absent"})
	}

	return errs
}

// Paginate computes total pages and the "a-b of n" label for a page.
func Paginate(total int64, page int, limit int) (int, string) {
	if limit <= 0 {
		return 0, "0 of 0"
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if total == 0 {
		return totalPages, "0 of 0"
	}
	return totalPages, fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
}

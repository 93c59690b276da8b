package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	MySummary(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	GetForEmployee(w http.ResponseWriter, r *http.Request)
	TeamSummary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, now func() time.Time) AttendanceHandler {
	if now == nil {
		now = time.Now
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		now:               now,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), actor.EmployeeID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), actor.EmployeeID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), actor.EmployeeID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := r.URL.Query()
	filter := attendance.HistoryFilter{
		Page:  parsePositiveInt(query.Get("page")),
		Limit: parsePositiveInt(query.Get("limit")),
	}
	if month := query.Get("month"); month != "" {
		filter.Month = &month
	}

	result, err := h.attendanceService.GetHistory(r.Context(), actor.EmployeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MySummary implements AttendanceHandler.
// month accepts either YYYY-MM or a month number paired with year.
func (h *attendanceHandlerImpl) MySummary(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, err := parseSummaryRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetMonthlySummary(r.Context(), actor.EmployeeID, req, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAll implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := r.URL.Query()
	filter := attendance.TeamFilter{
		EmployeeID: optionalQuery(r, "employee_id", "employeeId"),
		Date:       optionalQuery(r, "date"),
		Status:     optionalQuery(r, "status"),
		Page:       parsePositiveInt(query.Get("page")),
		Limit:      parsePositiveInt(query.Get("limit")),
	}

	result, err := h.attendanceService.ListAll(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetForEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetForEmployee(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ref := chi.URLParam(r, "id")
	filter := attendance.EmployeeRecordsFilter{
		Date:   optionalQuery(r, "date"),
		Status: optionalQuery(r, "status"),
	}

	result, err := h.attendanceService.GetForEmployee(r.Context(), actor, ref, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TeamSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) TeamSummary(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetTeamSummary(r.Context(), actor, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements AttendanceHandler. The body is CSV, not the JSON envelope.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := attendance.ExportRequest{
		Start:      optionalQuery(r, "start", "start_date"),
		End:        optionalQuery(r, "end", "end_date"),
		EmployeeID: optionalQuery(r, "employee_id", "employeeId"),
		Date:       optionalQuery(r, "date"),
		Status:     optionalQuery(r, "status"),
	}

	result, err := h.attendanceService.Export(r.Context(), actor, req, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, "text/csv; charset=utf-8", result.Filename())
	if err := attendance.WriteCSV(w, result.Rows); err != nil {
		// Headers are already sent; all that is left is to log.
		slog.ErrorContext(r.Context(), "failed to write attendance export", "error", err, "rows", len(result.Rows))
	}
}

func parseSummaryRequest(r *http.Request) (attendance.SummaryRequest, error) {
	query := r.URL.Query()
	var req attendance.SummaryRequest
	var errs validator.ValidationErrors

	if month := strings.TrimSpace(query.Get("month")); month != "" {
		if strings.Contains(month, "-") {
			req.Month = month
		} else if n, err := strconv.Atoi(month); err == nil {
			req.MonthNumber = &n
		} else {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be in YYYY-MM format or a number between 1 and 12"})
		}
	}

	if year := strings.TrimSpace(query.Get("year")); year != "" {
		if n, err := strconv.Atoi(year); err == nil {
			req.Year = &n
		} else {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
		}
	}

	if len(errs) > 0 {
		return req, errs
	}
	return req, nil
}

// optionalQuery returns the first non-empty value among keys, or nil.
func optionalQuery(r *http.Request, keys ...string) *string {
	query := r.URL.Query()
	for _, key := range keys {
		if v := strings.TrimSpace(query.Get(key)); v != "" {
			return &v
		}
	}
	return nil
}

// parsePositiveInt returns 0 (meaning "use the default") for missing or invalid input.
func parsePositiveInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (*chi.Mux, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)}
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)

	employeeRepo := memory.NewEmployeeRepository()
	attendanceRepo := memory.NewAttendanceRepository()
	classifier := attendance.NewClassifier(attendance.DefaultThresholds(), time.UTC)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, classifier)
	authSvc := authService.NewAuthService(employeeRepo, jwtService)
	dashboardSvc := dashboardService.NewDashboardService(attendanceSvc, time.UTC)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	router := NewRouter(
		RouterOptions{Logger: logger, LogLevel: slog.LevelError},
		jwtService,
		NewAuthHandler(authSvc),
		NewAttendanceHandler(attendanceSvc, clock.Now),
		NewDashboardHandler(dashboardSvc, clock.Now),
	)
	return router, clock
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// registerAndLogin registers a roster entry and returns its access token.
func registerAndLogin(t *testing.T, h http.Handler, name, email, code, role, dept string) string {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name":          name,
		"email":         email,
		"password":      "password123",
		"role":          role,
		"employee_code": code,
		"department":    dept,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &token))
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func TestRouter_Heartbeat(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(t, router, http.MethodGet, "/", "", nil)

	rec := doRequest(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "attendance_http_requests_total")
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "Ana Putri", "ana@example.com", "EMP-001", "employee", "Engineering")

	t.Run("me returns the caller", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var me struct {
			Email        string `json:"email"`
			EmployeeCode string `json:"employee_code"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &me))
		assert.Equal(t, "ana@example.com", me.Email)
		assert.Equal(t, "EMP-001", me.EmployeeCode)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name":          "Someone Else",
			"email":         "ana@example.com",
			"password":      "password123",
			"employee_code": "EMP-999",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "ana@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid payload is a validation error", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email": "not-an-email",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "email")
		assert.Contains(t, env.Error.Details, "name")
	})

	t.Run("users listing requires a token", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/auth/users", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/api/v1/auth/users", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAttendance_CheckInCheckOutFlow(t *testing.T) {
	router, clock := newTestRouter(t)
	token := registerAndLogin(t, router, "Ana Putri", "ana@example.com", "EMP-001", "employee", "Engineering")

	rec := doRequest(t, router, http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today attendance.TodayResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &today))
	assert.Equal(t, "2024-03-04", today.Date)
	assert.Equal(t, string(attendance.StatusNotCheckedIn), today.Status)
	assert.Nil(t, today.Attendance)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/attendance/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/attendance/checkin", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var checkedIn attendance.RecordResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &checkedIn))
	assert.Equal(t, "present", checkedIn.Status)
	assert.Equal(t, "2024-03-04", checkedIn.Date)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/attendance/checkin", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	clock.now = time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)
	rec = doRequest(t, router, http.MethodPost, "/api/v1/attendance/checkout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var checkedOut attendance.RecordResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &checkedOut))
	assert.Equal(t, 8.5, checkedOut.TotalHours)
	assert.Equal(t, "present", checkedOut.Status)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/attendance/checkout", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/attendance/my-history?month=2024-03", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history attendance.ListResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &history))
	assert.EqualValues(t, 1, history.Total)
	assert.Equal(t, 50, history.Limit)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/attendance/my-summary?month=3&year=2024", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary attendance.MonthlySummary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &summary))
	assert.Equal(t, 1, summary.Present)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/attendance/my-summary?month=march", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAttendance_ManagerRoutes(t *testing.T) {
	router, clock := newTestRouter(t)
	employeeToken := registerAndLogin(t, router, "Ana Putri", "ana@example.com", "EMP-001", "employee", "Engineering")
	registerAndLogin(t, router, "Budi Santoso", "budi@example.com", "EMP-002", "employee", "Sales")
	managerToken := registerAndLogin(t, router, "Maya Sari", "maya@example.com", "MGR-001", "manager", "Engineering")

	clock.now = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/attendance/checkin", employeeToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("employees are forbidden", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/attendance/all",
			"/api/v1/attendance/summary",
			"/api/v1/attendance/export",
			"/api/v1/attendance/employee/EMP-001",
			"/api/v1/dashboard/manager",
		} {
			rec := doRequest(t, router, http.MethodGet, path, employeeToken, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code, path)
		}
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/attendance/all", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("all", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/attendance/all?status=late", managerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list attendance.TeamListResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
		require.Len(t, list.Records, 1)
		assert.Equal(t, "late", list.Records[0].Attendance.Status)
		require.NotNil(t, list.Records[0].Employee)
		assert.Equal(t, "EMP-001", list.Records[0].Employee.EmployeeCode)
	})

	t.Run("employee by code", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/attendance/employee/EMP-001", managerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/api/v1/attendance/employee/EMP-404", managerToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("summary", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/attendance/summary", managerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var summary attendance.TeamSummaryResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &summary))
		assert.Equal(t, 2, summary.TotalEmployees)
		assert.Equal(t, 1, summary.PresentToday)
		assert.Equal(t, 1, summary.LateToday)
		require.Len(t, summary.AbsentToday, 1)
		assert.Equal(t, "EMP-002", summary.AbsentToday[0].EmployeeCode)
	})

	t.Run("export", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/attendance/export?start=2024-03-01&end=2024-03-31", managerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_20240301_20240331.csv")

		lines := strings.Split(rec.Body.String(), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, strings.Join(attendance.ExportHeader, ","), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], `"EMP-001","Ana Putri","ana@example.com","Engineering","2024-03-04"`), lines[1])
	})

	t.Run("export rejects an inverted range", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/attendance/export?start=2024-03-31&end=2024-03-01", managerToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("manager dashboard", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/dashboard/manager", managerToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("employee dashboard", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/dashboard/employee", employeeToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func rosterFixture() []employee.Employee {
	return []employee.Employee{
		{ID: "e1", EmployeeCode: "EMP-001", FullName: "Ana", Department: strPtr("Engineering"), Role: user.RoleEmployee},
		{ID: "e2", EmployeeCode: "EMP-002", FullName: "Budi", Department: strPtr("Finance"), Role: user.RoleEmployee},
		{ID: "e3", EmployeeCode: "EMP-003", FullName: "Citra", Role: user.RoleEmployee},
	}
}

func TestSummarizeMonth(t *testing.T) {
	checkIn := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	records := []Record{
		{Date: "2024-03-01", Status: StatusPresent, TotalHours: 8.25},
		{Date: "2024-03-02", Status: StatusLate, TotalHours: 7.5},
		{Date: "2024-03-03", Status: StatusHalfDay, TotalHours: 3.33},
		{Date: "2024-03-04", Status: StatusLate, CheckInTime: timePtr(checkIn)},
		{Date: "2024-03-05", Status: StatusPresent, TotalHours: 0.1},
	}

	got := SummarizeMonth("2024-03", records)

	assert.Equal(t, "2024-03", got.Month)
	assert.Equal(t, 2, got.Present)
	assert.Equal(t, 2, got.Late)
	assert.Equal(t, 1, got.HalfDay)
	assert.Equal(t, 0, got.Absent)
	assert.Equal(t, 19.18, got.TotalHours)
	assert.Equal(t, 5, got.TotalDaysRecorded)
	assert.Equal(t, got.TotalDaysRecorded, got.Present+got.Late+got.HalfDay+got.Absent)
}

func TestSummarizeMonth_OpenRecordWithoutStatusCountsPresent(t *testing.T) {
	checkIn := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	got := SummarizeMonth("2024-03", []Record{{Date: "2024-03-04", CheckInTime: &checkIn}})

	assert.Equal(t, 1, got.Present)
	assert.Equal(t, 1, got.TotalDaysRecorded)
}

func TestSummarizeMonth_Empty(t *testing.T) {
	got := SummarizeMonth("2024-02", nil)

	assert.Equal(t, MonthlySummary{Month: "2024-02"}, got)
}

func TestSummarizeTeamDay_AbsentIsSetDifference(t *testing.T) {
	roster := rosterFixture()
	records := []Record{
		{EmployeeID: "e2", Date: "2024-03-04", Status: StatusLate},
	}

	got := SummarizeTeamDay("2024-03-04", records, roster, nil)

	assert.Equal(t, 3, got.TotalEmployees)
	assert.Equal(t, 1, got.PresentToday)
	assert.Equal(t, 1, got.LateToday)
	require.Len(t, got.AbsentToday, 2)
	assert.Equal(t, "e1", got.AbsentToday[0].ID)
	assert.Equal(t, "e3", got.AbsentToday[1].ID)
	assert.Equal(t, map[string]int{"Finance": 1}, got.DeptCounts)
}

func TestSummarizeTeamDay_AddingRecordRemovesAbsence(t *testing.T) {
	roster := rosterFixture()
	records := []Record{{EmployeeID: "e1", Date: "2024-03-04", Status: StatusPresent}}

	before := SummarizeTeamDay("2024-03-04", records, roster, nil)
	records = append(records, Record{EmployeeID: "e3", Date: "2024-03-04", Status: StatusHalfDay})
	after := SummarizeTeamDay("2024-03-04", records, roster, nil)

	assert.Len(t, before.AbsentToday, 2)
	require.Len(t, after.AbsentToday, 1)
	assert.Equal(t, "e2", after.AbsentToday[0].ID)
	assert.Equal(t, before.TotalEmployees, after.TotalEmployees)
	assert.Equal(t, 2, after.PresentToday)
	assert.Equal(t, map[string]int{"Engineering": 1, employee.UnknownDepartment: 1}, after.DeptCounts)
}

func TestSummarizeTeamDay_IgnoresOtherDatesAndUsesOwners(t *testing.T) {
	roster := rosterFixture()
	owners := map[string]employee.Employee{
		"m1": {ID: "m1", Department: strPtr("Management"), Role: user.RoleManager},
	}
	for _, e := range roster {
		owners[e.ID] = e
	}
	records := []Record{
		{EmployeeID: "e1", Date: "2024-03-03", Status: StatusPresent},
		{EmployeeID: "m1", Date: "2024-03-04", Status: StatusPresent},
		{EmployeeID: "ghost", Date: "2024-03-04", Status: StatusPresent},
	}

	got := SummarizeTeamDay("2024-03-04", records, roster, owners)

	assert.Equal(t, 2, got.PresentToday)
	assert.Len(t, got.AbsentToday, 3)
	assert.Equal(t, map[string]int{"Management": 1, employee.UnknownDepartment: 1}, got.DeptCounts)
}

func TestWeeklyTrend(t *testing.T) {
	end := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	records := []Record{
		{EmployeeID: "e1", Date: "2024-03-01", Status: StatusPresent},
		{EmployeeID: "e2", Date: "2024-03-01", Status: StatusLate},
		{EmployeeID: "e1", Date: "2024-03-07", Status: StatusHalfDay},
		{EmployeeID: "e1", Date: "2024-02-29", Status: StatusPresent},
	}

	got := WeeklyTrend(end, records)

	require.Len(t, got, TrendDays)
	assert.Equal(t, TrendPoint{Date: "2024-03-01", Present: 2}, got[0])
	assert.Equal(t, TrendPoint{Date: "2024-03-02", Present: 0}, got[1])
	assert.Equal(t, TrendPoint{Date: "2024-03-07", Present: 1}, got[6])

	from, to := TrendWindow(end)
	assert.Equal(t, "2024-03-01", from)
	assert.Equal(t, "2024-03-07", to)
}

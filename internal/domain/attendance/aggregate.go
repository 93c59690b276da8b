package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// TrendDays is the length of the weekly trend window.
const TrendDays = 7

// MonthlySummary counts stored statuses of one employee's records in a month.
// Days without a record are not counted at all.
type MonthlySummary struct {
	Month             string  `json:"month"`
	Present           int     `json:"present"`
	Late              int     `json:"late"`
	HalfDay           int     `json:"half_day"`
	Absent            int     `json:"absent"`
	TotalHours        float64 `json:"total_hours"`
	TotalDaysRecorded int     `json:"total_days_recorded"`
}

// SummarizeMonth folds records into a MonthlySummary using the statuses as stored.
// A record with a check-in, no check-out and no known status counts as present.
func SummarizeMonth(month string, records []Record) MonthlySummary {
	summary := MonthlySummary{Month: month, TotalDaysRecorded: len(records)}
	total := decimal.Zero

	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			summary.Present++
		case StatusLate:
			summary.Late++
		case StatusHalfDay:
			summary.HalfDay++
		case StatusAbsent:
			summary.Absent++
		default:
			if r.IsCheckedIn() && !r.IsCheckedOut() {
				summary.Present++
			}
		}
		total = total.Add(decimal.NewFromFloat(r.TotalHours))
	}

	summary.TotalHours = total.Round(2).InexactFloat64()
	return summary
}

// TeamDailySummary is the team's attendance for one calendar date.
type TeamDailySummary struct {
	Date           string
	TotalEmployees int
	PresentToday   int
	LateToday      int
	AbsentToday    []employee.Employee
	DeptCounts     map[string]int
}

// SummarizeTeamDay computes presence from the day's records and absence as the
// roster minus every employee holding any record that day. owners resolves the
// department of a record's employee; when nil the roster is used.
func SummarizeTeamDay(date string, records []Record, roster []employee.Employee, owners map[string]employee.Employee) TeamDailySummary {
	summary := TeamDailySummary{
		Date:           date,
		TotalEmployees: len(roster),
		AbsentToday:    make([]employee.Employee, 0),
		DeptCounts:     make(map[string]int),
	}

	if owners == nil {
		owners = make(map[string]employee.Employee, len(roster))
		for _, e := range roster {
			owners[e.ID] = e
		}
	}

	recorded := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Date != date {
			continue
		}
		recorded[r.EmployeeID] = struct{}{}

		if r.Status.IsStored() {
			summary.PresentToday++
		}
		if r.Status == StatusLate {
			summary.LateToday++
		}

		dept := employee.UnknownDepartment
		if e, ok := owners[r.EmployeeID]; ok {
			dept = e.DepartmentOrUnknown()
		}
		summary.DeptCounts[dept]++
	}

	for _, e := range roster {
		if _, ok := recorded[e.ID]; !ok {
			summary.AbsentToday = append(summary.AbsentToday, e)
		}
	}

	return summary
}

// TrendPoint is the number of records existing on one date.
type TrendPoint struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
}

// WeeklyTrend counts records per day for the TrendDays days ending on endDate,
// oldest first, regardless of status.
func WeeklyTrend(endDate time.Time, records []Record) []TrendPoint {
	counts := make(map[string]int, TrendDays)
	for _, r := range records {
		counts[r.Date]++
	}

	points := make([]TrendPoint, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := endDate.AddDate(0, 0, -i).Format(DateLayout)
		points = append(points, TrendPoint{Date: day, Present: counts[day]})
	}
	return points
}

// TrendWindow returns the inclusive date bounds used by WeeklyTrend.
func TrendWindow(endDate time.Time) (from string, to string) {
	return endDate.AddDate(0, 0, -(TrendDays - 1)).Format(DateLayout), endDate.Format(DateLayout)
}

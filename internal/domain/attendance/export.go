package attendance

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

// ExportHeader is the column contract of the attendance CSV export.
var ExportHeader = []string{
	"EmployeeId",
	"Name",
	"Email",
	"Department",
	"Date",
	"CheckInTime",
	"CheckOutTime",
	"Status",
	"TotalHours",
}

// ExportRow is one record joined with its owner's identity, already rendered.
type ExportRow struct {
	EmployeeCode string
	Name         string
	Email        string
	Department   string
	Date         string
	CheckInTime  string
	CheckOutTime string
	Status       string
	TotalHours   string
}

func (r ExportRow) values() []string {
	return []string{
		r.EmployeeCode,
		r.Name,
		r.Email,
		r.Department,
		r.Date,
		r.CheckInTime,
		r.CheckOutTime,
		r.Status,
		r.TotalHours,
	}
}

// BuildExportRows joins each record with its owner from owners (keyed by
// employee ID). Missing values render as "", missing hours as "0".
func BuildExportRows(records []Record, owners map[string]employee.Employee) []ExportRow {
	rows := make([]ExportRow, 0, len(records))
	for _, r := range records {
		owner := owners[r.EmployeeID]

		row := ExportRow{
			EmployeeCode: owner.EmployeeCode,
			Name:         owner.FullName,
			Email:        owner.Email,
			Department:   owner.DepartmentOrEmpty(),
			Date:         r.Date,
			Status:       string(r.Status),
			TotalHours:   strconv.FormatFloat(r.TotalHours, 'f', -1, 64),
		}
		if ts := FormatTimestamp(r.CheckInTime); ts != nil {
			row.CheckInTime = *ts
		}
		if ts := FormatTimestamp(r.CheckOutTime); ts != nil {
			row.CheckOutTime = *ts
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header and rows. Every value is double-quoted; embedded
// quotes are doubled. Lines are separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(ExportHeader, ",")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		values := row.values()
		for i, v := range values {
			values[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		if _, err := bw.WriteString(strings.Join(values, ",")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

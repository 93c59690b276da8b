package attendance

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExportRows(t *testing.T) {
	in := time.Date(2024, 3, 4, 1, 5, 0, 0, time.UTC)
	out := time.Date(2024, 3, 4, 10, 5, 0, 0, time.UTC)
	owners := map[string]employee.Employee{
		"e1": {ID: "e1", EmployeeCode: "EMP-001", FullName: "Ana", Email: "ana@example.com", Department: strPtr("Engineering")},
	}
	records := []Record{
		{EmployeeID: "e1", Date: "2024-03-04", CheckInTime: &in, CheckOutTime: &out, Status: StatusPresent, TotalHours: 9},
		{EmployeeID: "e1", Date: "2024-03-05", CheckInTime: &in, Status: StatusLate},
		{EmployeeID: "gone", Date: "2024-03-05", Status: StatusPresent, TotalHours: 3.75},
	}

	rows := BuildExportRows(records, owners)

	require.Len(t, rows, 3)
	assert.Equal(t, ExportRow{
		EmployeeCode: "EMP-001",
		Name:         "Ana",
		Email:        "ana@example.com",
		Department:   "Engineering",
		Date:         "2024-03-04",
		CheckInTime:  "2024-03-04T01:05:00.000Z",
		CheckOutTime: "2024-03-04T10:05:00.000Z",
		Status:       "present",
		TotalHours:   "9",
	}, rows[0])
	assert.Equal(t, "", rows[1].CheckOutTime)
	assert.Equal(t, "0", rows[1].TotalHours)
	assert.Equal(t, "", rows[2].EmployeeCode)
	assert.Equal(t, "", rows[2].Name)
	assert.Equal(t, "3.75", rows[2].TotalHours)
}

func TestWriteCSV(t *testing.T) {
	rows := []ExportRow{
		{EmployeeCode: "EMP-001", Name: "Ana", Email: "ana@example.com", Department: "Engineering",
			Date: "2024-03-04", CheckInTime: "2024-03-04T01:05:00.000Z", Status: "late", TotalHours: "0"},
		{EmployeeCode: "EMP-002", Name: `Budi "B"`, Date: "2024-03-04", Status: "present", TotalHours: "8.5"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	want := "EmployeeId,Name,Email,Department,Date,CheckInTime,CheckOutTime,Status,TotalHours\n" +
		`"EMP-001","Ana","ana@example.com","Engineering","2024-03-04","2024-03-04T01:05:00.000Z","","late","0"` + "\n" +
		`"EMP-002","Budi ""B""","","","2024-03-04","","","present","8.5"`
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, "EmployeeId,Name,Email,Department,Date,CheckInTime,CheckOutTime,Status,TotalHours", buf.String())
}

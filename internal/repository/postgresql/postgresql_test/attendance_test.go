package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_CheckInCheckOut(t *testing.T) {
	db := openTestDB(t)
	employees := postgresql.NewEmployeeRepository(db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	ana := createTestEmployee(t, employees, "EMP-001", "ana@example.com")
	checkIn := time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)

	missing, err := repo.FindOne(ctx, ana.ID, "2024-03-04")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.UpdateCheckOut(ctx, attendance.Record{EmployeeID: ana.ID, Date: "2024-03-04", CheckOutTime: &checkIn})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	created, err := repo.UpsertCheckIn(ctx, attendance.Record{
		EmployeeID:  ana.ID,
		Date:        "2024-03-04",
		CheckInTime: &checkIn,
		Status:      attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2024-03-04", created.Date)
	require.NotNil(t, created.CheckInTime)
	assert.True(t, created.CheckInTime.Equal(checkIn))
	assert.Nil(t, created.CheckOutTime)

	_, err = repo.UpsertCheckIn(ctx, attendance.Record{
		EmployeeID: ana.ID, Date: "2024-03-04", CheckInTime: &checkIn, Status: attendance.StatusLate,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	checkOut := checkIn.Add(8*time.Hour + 30*time.Minute)
	closed, err := repo.UpdateCheckOut(ctx, attendance.Record{
		EmployeeID:   ana.ID,
		Date:         "2024-03-04",
		CheckOutTime: &checkOut,
		TotalHours:   8.5,
		Status:       attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.5, closed.TotalHours)
	require.NotNil(t, closed.CheckOutTime)

	_, err = repo.UpdateCheckOut(ctx, attendance.Record{
		EmployeeID: ana.ID, Date: "2024-03-04", CheckOutTime: &checkOut, TotalHours: 8.5, Status: attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceRepository_ConcurrentCheckIn(t *testing.T) {
	db := openTestDB(t)
	employees := postgresql.NewEmployeeRepository(db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	ana := createTestEmployee(t, employees, "EMP-001", "ana@example.com")
	checkIn := time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpsertCheckIn(ctx, attendance.Record{
				EmployeeID: ana.ID, Date: "2024-03-04", CheckInTime: &checkIn, Status: attendance.StatusPresent,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
}

func TestAttendanceRepository_Queries(t *testing.T) {
	db := openTestDB(t)
	employees := postgresql.NewEmployeeRepository(db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	ana := createTestEmployee(t, employees, "EMP-001", "ana@example.com")
	budi := createTestEmployee(t, employees, "EMP-002", "budi@example.com")

	seed := []struct {
		employeeID string
		date       string
		status     attendance.Status
	}{
		{ana.ID, "2024-02-28", attendance.StatusPresent},
		{ana.ID, "2024-03-01", attendance.StatusLate},
		{ana.ID, "2024-03-04", attendance.StatusPresent},
		{budi.ID, "2024-03-04", attendance.StatusLate},
	}
	for _, s := range seed {
		at, err := time.Parse("2006-01-02", s.date)
		require.NoError(t, err)
		at = at.Add(9 * time.Hour)
		_, err = repo.UpsertCheckIn(ctx, attendance.Record{
			EmployeeID: s.employeeID, Date: s.date, CheckInTime: &at, Status: s.status,
		})
		require.NoError(t, err)
	}

	t.Run("month filter, newest first", func(t *testing.T) {
		month := "2024-03"
		records, err := repo.FindRange(ctx, attendance.RecordFilter{EmployeeID: &ana.ID, Month: &month})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "2024-03-04", records[0].Date)
		assert.Equal(t, "2024-03-01", records[1].Date)
	})

	t.Run("date range ascending", func(t *testing.T) {
		from, to := "2024-02-28", "2024-03-01"
		records, err := repo.FindRange(ctx, attendance.RecordFilter{DateFrom: &from, DateTo: &to, SortOrder: "asc"})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "2024-02-28", records[0].Date)
	})

	t.Run("status filter with paging", func(t *testing.T) {
		late := attendance.StatusLate
		filter := attendance.RecordFilter{Status: &late}

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)

		page, err := repo.List(ctx, filter, 2, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "2024-03-01", page[0].Date)
	})
}

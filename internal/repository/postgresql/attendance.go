package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date::text, a.check_in, a.check_out,
	a.status, a.total_hours, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// FindOne implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOne(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2::date
		LIMIT 1`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &rec, nil
}

// FindRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindRange(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildRecordWhere(filter)
	query := fmt.Sprintf(`SELECT %s
		FROM attendances a
		WHERE %s
		ORDER BY a.date %s, a.employee_id`, attendanceColumns, where, sortDirection(filter.SortOrder))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	return collectRecords(rows)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter, page int, limit int) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildRecordWhere(filter)
	if page < 1 {
		page = 1
	}
	argIdx := len(args) + 1
	query := fmt.Sprintf(`SELECT %s
		FROM attendances a
		WHERE %s
		ORDER BY a.date %s, a.employee_id
		LIMIT $%d OFFSET $%d`, attendanceColumns, where, sortDirection(filter.SortOrder), argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	return collectRecords(rows)
}

// Count implements attendance.AttendanceRepository.
func (a *attendanceRepository) Count(ctx context.Context, filter attendance.RecordFilter) (int64, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildRecordWhere(filter)
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances a WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}
	return total, nil
}

// UpsertCheckIn implements attendance.AttendanceRepository.
//
// The conflict branch only fires while the stored check_in is NULL, so the
// statement returns no row when the day is already checked in.
func (a *attendanceRepository) UpsertCheckIn(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances AS a (employee_id, date, check_in, status)
		VALUES ($1, $2::date, $3, $4)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in = EXCLUDED.check_in,
			check_out = NULL,
			status = EXCLUDED.status,
			total_hours = 0,
			updated_at = NOW()
		WHERE a.check_in IS NULL
		RETURNING ` + attendanceColumns

	rec, err := scanRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.Date, record.CheckInTime, string(record.Status),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to upsert check-in: %w", err)
	}
	return rec, nil
}

// UpdateCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateCheckOut(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances AS a
		SET check_out = $3,
			total_hours = $4,
			status = $5,
			updated_at = NOW()
		WHERE a.employee_id = $1
		  AND a.date = $2::date
		  AND a.check_in IS NOT NULL
		  AND a.check_out IS NULL
		RETURNING ` + attendanceColumns

	rec, err := scanRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.Date, record.CheckOutTime, record.TotalHours, string(record.Status),
	))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Record{}, fmt.Errorf("failed to update check-out: %w", err)
	}

	// No row was updated: tell the two rejections apart.
	existing, findErr := a.FindOne(ctx, record.EmployeeID, record.Date)
	if findErr != nil {
		return attendance.Record{}, findErr
	}
	if existing == nil || !existing.IsCheckedIn() {
		return attendance.Record{}, attendance.ErrNotCheckedIn
	}
	return attendance.Record{}, attendance.ErrAlreadyCheckedOut
}

func buildRecordWhere(filter attendance.RecordFilter) (string, []interface{}) {
	where := "TRUE"
	args := []interface{}{}
	argIdx := 1

	add := func(clause string, value interface{}) {
		where += fmt.Sprintf(" AND "+clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.EmployeeID != nil {
		add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Date != nil {
		add("a.date = $%d::date", *filter.Date)
	}
	if filter.DateFrom != nil {
		add("a.date >= $%d::date", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("a.date <= $%d::date", *filter.DateTo)
	}
	if filter.Month != nil {
		add("to_char(a.date, 'YYYY-MM') = $%d", *filter.Month)
	}
	if filter.Status != nil {
		add("a.status = $%d", string(*filter.Status))
	}

	return where, args
}

func sortDirection(order string) string {
	if strings.ToLower(order) == "asc" {
		return "ASC"
	}
	return "DESC"
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var status string
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInTime, &rec.CheckOutTime,
		&status, &rec.TotalHours, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Status = attendance.Status(status)
	return rec, nil
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type recordKey struct {
	employeeID string
	date       string
}

// attendanceRepository keeps records in a map guarded by a single RWMutex.
// Conditional writes hold the write lock for the whole read-check-write.
type attendanceRepository struct {
	mu      sync.RWMutex
	records map[recordKey]attendance.Record
}

func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepository{
		records: make(map[recordKey]attendance.Record),
	}
}

// FindOne implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOne(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	rec, ok := a.records[recordKey{employeeID, date}]
	if !ok {
		return nil, nil
	}
	cp := cloneRecord(rec)
	return &cp, nil
}

// FindRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindRange(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.selectRecords(filter), nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter, page int, limit int) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := a.selectRecords(filter)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	if offset >= len(all) || limit <= 0 {
		return []attendance.Record{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

// Count implements attendance.AttendanceRepository.
func (a *attendanceRepository) Count(ctx context.Context, filter attendance.RecordFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var n int64
	for _, rec := range a.records {
		if matches(filter, rec) {
			n++
		}
	}
	return n, nil
}

// UpsertCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertCheckIn(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := recordKey{record.EmployeeID, record.Date}
	now := time.Now().UTC()

	stored, exists := a.records[key]
	if exists && stored.IsCheckedIn() {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}
	if !exists {
		stored = attendance.Record{
			ID:         uuid.NewString(),
			EmployeeID: record.EmployeeID,
			Date:       record.Date,
			CreatedAt:  now,
		}
	}

	stored.CheckInTime = cloneTime(record.CheckInTime)
	stored.CheckOutTime = nil
	stored.Status = record.Status
	stored.TotalHours = 0
	stored.UpdatedAt = now

	a.records[key] = stored
	return cloneRecord(stored), nil
}

// UpdateCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateCheckOut(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := recordKey{record.EmployeeID, record.Date}
	stored, exists := a.records[key]
	if !exists || !stored.IsCheckedIn() {
		return attendance.Record{}, attendance.ErrNotCheckedIn
	}
	if stored.IsCheckedOut() {
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	}

	stored.CheckOutTime = cloneTime(record.CheckOutTime)
	stored.TotalHours = record.TotalHours
	stored.Status = record.Status
	stored.UpdatedAt = time.Now().UTC()

	a.records[key] = stored
	return cloneRecord(stored), nil
}

func (a *attendanceRepository) selectRecords(filter attendance.RecordFilter) []attendance.Record {
	a.mu.RLock()
	result := make([]attendance.Record, 0)
	for _, rec := range a.records {
		if matches(filter, rec) {
			result = append(result, cloneRecord(rec))
		}
	}
	a.mu.RUnlock()

	asc := strings.ToLower(filter.SortOrder) == "asc"
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			if asc {
				return result[i].Date < result[j].Date
			}
			return result[i].Date > result[j].Date
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result
}

func matches(f attendance.RecordFilter, r attendance.Record) bool {
	if f.EmployeeID != nil && r.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Date != nil && r.Date != *f.Date {
		return false
	}
	if f.DateFrom != nil && r.Date < *f.DateFrom {
		return false
	}
	if f.DateTo != nil && r.Date > *f.DateTo {
		return false
	}
	if f.Month != nil && !strings.HasPrefix(r.Date, *f.Month) {
		return false
	}
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	return true
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneRecord(r attendance.Record) attendance.Record {
	r.CheckInTime = cloneTime(r.CheckInTime)
	r.CheckOutTime = cloneTime(r.CheckOutTime)
	return r
}

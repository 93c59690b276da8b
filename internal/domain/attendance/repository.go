package attendance

import (
	"context"
)

// RecordFilter narrows record queries. Nil fields are not applied.
type RecordFilter struct {
	EmployeeID *string
	Date       *string // exact YYYY-MM-DD
	DateFrom   *string // inclusive
	DateTo     *string // inclusive
	Month      *string // YYYY-MM, prefix match on date
	Status     *Status

	// SortOrder orders by date: "asc" or "desc" (default)
	SortOrder string
}

// AttendanceRepository is the record store. Writes are conditional on the stored
// state of the (employeeID, date) key so that two concurrent check-ins (or
// check-outs) for the same key cannot both succeed.
type AttendanceRepository interface {
	// FindOne returns the record for the key, or nil when none exists
	FindOne(ctx context.Context, employeeID string, date string) (*Record, error)

	// FindRange returns every record matching the filter
	FindRange(ctx context.Context, filter RecordFilter) ([]Record, error)

	// List returns one page of matching records ordered by date
	List(ctx context.Context, filter RecordFilter, page int, limit int) ([]Record, error)

	// Count returns the number of records matching the filter
	Count(ctx context.Context, filter RecordFilter) (int64, error)

	// UpsertCheckIn creates the day's record, or fills an existing record that
	// has no check-in yet. Returns ErrAlreadyCheckedIn when the stored record
	// already carries a check-in.
	UpsertCheckIn(ctx context.Context, record Record) (Record, error)

	// UpdateCheckOut stores check-out time, hours and status. Returns
	// ErrNotCheckedIn when there is no checked-in record and
	// ErrAlreadyCheckedOut when the check-out is already set.
	UpdateCheckOut(ctx context.Context, record Record) (Record, error)
}

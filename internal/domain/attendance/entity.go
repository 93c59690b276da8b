package attendance

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-date form used as part of a record's identity.
	DateLayout = "2006-01-02"
	// MonthLayout is used for month filters and summaries.
	MonthLayout = "2006-01"
	// TimestampLayout is the round-trippable form used for check-in/out instants.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"

	// StatusAbsent is computed by aggregation only. No record is ever stored with it.
	StatusAbsent Status = "absent"

	// StatusNotCheckedIn is the today-view sentinel for a day without a record.
	StatusNotCheckedIn Status = "not-checked-in"
)

// IsStored reports whether s is a status a record can carry in storage.
func (s Status) IsStored() bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// IsFilterable reports whether s may be used as a query filter.
func (s Status) IsFilterable() bool {
	return s.IsStored() || s == StatusAbsent
}

// Record is the attendance of one employee on one calendar date.
// (EmployeeID, Date) is unique.
type Record struct {
	ID           string
	EmployeeID   string
	Date         string // YYYY-MM-DD
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	TotalHours   float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Record) IsCheckedIn() bool {
	return r.CheckInTime != nil
}

func (r Record) IsCheckedOut() bool {
	return r.CheckOutTime != nil
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On returns the instant of t on the given calendar date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Thresholds configures status classification.
type Thresholds struct {
	LateCutoff         TimeOfDay
	HalfDayHourCeiling float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		LateCutoff:         TimeOfDay{Hour: 9, Minute: 15},
		HalfDayHourCeiling: 4.0,
	}
}

// FormatTimestamp renders an optional instant in TimestampLayout (UTC).
func FormatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(TimestampLayout)
	return &s
}

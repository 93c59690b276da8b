package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in/out state machine
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("you haven't checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrInvalidRange      = errors.New("check-out time is before check-in time")

	// Queries
	ErrInvalidMonth = errors.New("month must be in YYYY-MM format")
	ErrInvalidDate  = errors.New("date must be in YYYY-MM-DD format")
)

package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Classifier turns check-in/check-out instants into a day status and worked hours.
// It has no side effects.
type Classifier struct {
	Thresholds Thresholds
	Location   *time.Location
}

func NewClassifier(thresholds Thresholds, loc *time.Location) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Classifier{Thresholds: thresholds, Location: loc}
}

// DateOf returns the calendar date of t in the classifier's location.
func (c *Classifier) DateOf(t time.Time) string {
	return t.In(c.Location).Format(DateLayout)
}

// ClassifyCheckIn returns StatusLate iff now is strictly after the cutoff on date.
// A check-in exactly at the cutoff is present.
func (c *Classifier) ClassifyCheckIn(now time.Time, date string) (Status, error) {
	day, err := time.ParseInLocation(DateLayout, date, c.Location)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	cutoff := c.Thresholds.LateCutoff.On(day, c.Location)
	if now.After(cutoff) {
		return StatusLate, nil
	}
	return StatusPresent, nil
}

// ComputeCheckout returns the hours between checkIn and now rounded to 2 decimals.
// A check-out before the check-in is rejected with ErrInvalidRange.
func (c *Classifier) ComputeCheckout(checkIn time.Time, now time.Time) (float64, error) {
	if now.Before(checkIn) {
		return 0, ErrInvalidRange
	}
	return RoundHours(now.Sub(checkIn).Hours()), nil
}

// ClassifyCheckOut only ever demotes to half-day; present/late are never upgraded.
func (c *Classifier) ClassifyCheckOut(existing Status, totalHours float64) Status {
	if totalHours > 0 && totalHours < c.Thresholds.HalfDayHourCeiling {
		return StatusHalfDay
	}
	if existing == "" {
		return StatusPresent
	}
	return existing
}

// RoundHours rounds h to 2 decimal places, flooring negatives at 0.
func RoundHours(h float64) float64 {
	if h <= 0 {
		return 0
	}
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}

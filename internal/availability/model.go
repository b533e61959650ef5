package availability

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDay   = errors.New("day must be a weekday name (Sunday through Saturday)")
	ErrInvalidTime  = errors.New("times must be HH:MM in 24-hour format")
	ErrInvalidRange = errors.New("start time must be before end time")
	ErrSlotNotFound = errors.New("availability slot not found")
)

// Slot is one recurring weekly availability rule for a practitioner.
// Times are clinic-local HH:MM strings; zero-padding makes lexicographic
// comparison equivalent to chronological comparison.
type Slot struct {
	ID             uuid.UUID
	PractitionerID string
	Day            string
	StartTime      string
	EndTime        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var validDays = map[string]bool{
	"Sunday": true, "Monday": true, "Tuesday": true, "Wednesday": true,
	"Thursday": true, "Friday": true, "Saturday": true,
}

var timeOfDayRE = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidDay reports whether day is one of the seven weekday names.
func ValidDay(day string) bool {
	return validDays[day]
}

// ValidTimeOfDay reports whether s is a zero-padded 24-hour HH:MM string.
func ValidTimeOfDay(s string) bool {
	return timeOfDayRE.MatchString(s)
}

// ValidateRange checks both time strings and their ordering.
func ValidateRange(start, end string) error {
	if !ValidTimeOfDay(start) || !ValidTimeOfDay(end) {
		return ErrInvalidTime
	}
	if start >= end {
		return ErrInvalidRange
	}
	return nil
}

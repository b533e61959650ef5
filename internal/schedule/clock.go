package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the wire format for clinic-local calendar dates.
const DateLayout = "2006-01-02"

// The clinic runs on a single fixed UTC offset, not the caller's timezone.
// Every component that derives a calendar date or weekday from an instant
// must go through localTime so that projection, resolution, numbering and
// the lifecycle sweep all agree on what "today" is.

func localTime(t time.Time, offset time.Duration) time.Time {
	return t.UTC().Add(offset)
}

// LocalDate returns the clinic-local calendar date of t as YYYY-MM-DD.
func LocalDate(t time.Time, offset time.Duration) string {
	return localTime(t, offset).Format(DateLayout)
}

// LocalWeekday returns the clinic-local weekday name of t.
func LocalWeekday(t time.Time, offset time.Duration) string {
	return localTime(t, offset).Weekday().String()
}

// WeekdayOfDate returns the weekday name of a clinic-local calendar date.
// A plain calendar date has the same weekday under any offset, so this is
// the counterpart of LocalWeekday for date strings.
func WeekdayOfDate(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return d.Weekday().String(), nil
}

// ValidDate reports whether s is a parseable YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

var utcOffsetRE = regexp.MustCompile(`^([+-])([01][0-9]):([0-5][0-9])$`)

// ParseUTCOffset parses a fixed offset of the form "+05:30" or "-04:00".
func ParseUTCOffset(s string) (time.Duration, error) {
	m := utcOffsetRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid UTC offset %q, want e.g. +05:30", s)
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}

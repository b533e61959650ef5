package schedule

import (
	"time"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
)

// DefaultLookaheadDays is the projection window when the caller does not ask
// for a specific one.
const DefaultLookaheadDays = 60

// ProjectedDay is one concrete bookable calendar date produced by expanding
// a practitioner's recurring weekly availability.
type ProjectedDay struct {
	Date             string `json:"date"`
	Weekday          string `json:"weekday"`
	AppointmentCount int    `json:"appointmentCount"`
}

// Project expands the recurring slots into concrete dates over the next
// window days, starting tomorrow. A date is included iff its clinic-local
// weekday matches at least one slot's day. AppointmentCount is left zero;
// callers that track bookings annotate it afterwards.
//
// Date stepping happens on the already-shifted local time, so the weekday
// and the date string always agree even when the offset crosses midnight
// relative to UTC.
func Project(now time.Time, window int, offset time.Duration, slots []availability.Slot) []ProjectedDay {
	if window <= 0 {
		window = DefaultLookaheadDays
	}

	days := make(map[string]bool, len(slots))
	for _, s := range slots {
		days[s.Day] = true
	}

	base := localTime(now, offset)
	var out []ProjectedDay
	for i := 1; i <= window; i++ {
		d := base.AddDate(0, 0, i)
		weekday := d.Weekday().String()
		if !days[weekday] {
			continue
		}
		out = append(out, ProjectedDay{
			Date:    d.Format(DateLayout),
			Weekday: weekday,
		})
	}
	return out
}

// SlotsOn returns the subset of slots bookable on the given clinic-local
// calendar date, i.e. those whose day matches the date's weekday.
func SlotsOn(date string, slots []availability.Slot) ([]availability.Slot, error) {
	weekday, err := WeekdayOfDate(date)
	if err != nil {
		return nil, err
	}

	var out []availability.Slot
	for _, s := range slots {
		if s.Day == weekday {
			out = append(out, s)
		}
	}
	return out, nil
}

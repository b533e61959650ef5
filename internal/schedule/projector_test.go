package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
)

const colomboOffset = 5*time.Hour + 30*time.Minute

func slotOn(day string) availability.Slot {
	return availability.Slot{Day: day, StartTime: "09:00", EndTime: "10:00"}
}

func TestProjectOnlyConfiguredWeekdays(t *testing.T) {
	slots := []availability.Slot{slotOn("Wednesday")}
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	days := Project(now, 60, colomboOffset, slots)
	require.NotEmpty(t, days)

	for _, d := range days {
		assert.Equal(t, "Wednesday", d.Weekday, "date %s", d.Date)
		weekday, err := WeekdayOfDate(d.Date)
		require.NoError(t, err)
		assert.Equal(t, "Wednesday", weekday, "date %s", d.Date)
	}

	// 2025-05-16 through 2025-07-14 holds exactly eight Wednesdays, the
	// first on 2025-05-21. None may be skipped across the month boundaries.
	assert.Len(t, days, 8)
	assert.Equal(t, "2025-05-21", days[0].Date)
	for i := 1; i < len(days); i++ {
		prev, err := time.Parse(DateLayout, days[i-1].Date)
		require.NoError(t, err)
		assert.Equal(t, prev.AddDate(0, 0, 7).Format(DateLayout), days[i].Date)
	}
}

func TestProjectMonthRollover(t *testing.T) {
	var slots []availability.Slot
	for _, day := range []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		slots = append(slots, slotOn(day))
	}

	now := time.Date(2025, 1, 28, 12, 0, 0, 0, time.UTC)
	days := Project(now, 5, colomboOffset, slots)

	require.Len(t, days, 5)
	assert.Equal(t, "2025-01-29", days[0].Date)
	assert.Equal(t, "2025-01-31", days[2].Date)
	assert.Equal(t, "2025-02-01", days[3].Date)
	assert.Equal(t, "2025-02-02", days[4].Date)
}

func TestProjectStartsTomorrowLocalTime(t *testing.T) {
	// 20:00 UTC on the 15th is already the 16th at +05:30, so the window
	// must begin on the 17th.
	var slots []availability.Slot
	for _, day := range []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		slots = append(slots, slotOn(day))
	}

	now := time.Date(2025, 5, 15, 20, 0, 0, 0, time.UTC)
	days := Project(now, 3, colomboOffset, slots)

	require.Len(t, days, 3)
	assert.Equal(t, "2025-05-17", days[0].Date)
}

func TestProjectNoSlots(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	assert.Empty(t, Project(now, 60, colomboOffset, nil))
}

func TestProjectDefaultWindow(t *testing.T) {
	var slots []availability.Slot
	for _, day := range []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		slots = append(slots, slotOn(day))
	}

	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	days := Project(now, 0, colomboOffset, slots)
	assert.Len(t, days, DefaultLookaheadDays)
}

func TestSlotsOnMatchesWeekday(t *testing.T) {
	slots := []availability.Slot{
		{Day: "Wednesday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "Wednesday", StartTime: "14:00", EndTime: "15:00"},
		{Day: "Friday", StartTime: "09:00", EndTime: "10:00"},
	}

	matched, err := SlotsOn("2025-06-04", slots) // a Wednesday
	require.NoError(t, err)
	require.Len(t, matched, 2)
	for _, s := range matched {
		assert.Equal(t, "Wednesday", s.Day)
	}

	matched, err = SlotsOn("2025-06-05", slots) // a Thursday
	require.NoError(t, err)
	assert.Empty(t, matched)

	_, err = SlotsOn("junk", slots)
	assert.Error(t, err)
}

func TestProjectorAndResolverAgree(t *testing.T) {
	slots := []availability.Slot{slotOn("Monday"), slotOn("Thursday")}
	now := time.Date(2025, 8, 20, 23, 45, 0, 0, time.UTC)

	for _, d := range Project(now, 30, colomboOffset, slots) {
		matched, err := SlotsOn(d.Date, slots)
		require.NoError(t, err)
		assert.NotEmpty(t, matched, "projected date %s must resolve to at least one slot", d.Date)
	}
}

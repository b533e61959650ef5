package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUTCOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "+05:30", want: 5*time.Hour + 30*time.Minute},
		{in: "-04:00", want: -4 * time.Hour},
		{in: "+00:00", want: 0},
		{in: "05:30", wantErr: true},
		{in: "+5:30", wantErr: true},
		{in: "+05:75", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseUTCOffset(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestLocalDateCrossesMidnightForward(t *testing.T) {
	// 20:00 UTC is already the next day at +05:30.
	now := time.Date(2025, 5, 15, 20, 0, 0, 0, time.UTC)
	offset := 5*time.Hour + 30*time.Minute

	assert.Equal(t, "2025-05-16", LocalDate(now, offset))
	assert.Equal(t, "Friday", LocalWeekday(now, offset))
}

func TestLocalDateCrossesMidnightBackward(t *testing.T) {
	// 02:00 UTC is still the previous day at -04:00.
	now := time.Date(2025, 5, 16, 2, 0, 0, 0, time.UTC)
	offset := -4 * time.Hour

	assert.Equal(t, "2025-05-15", LocalDate(now, offset))
	assert.Equal(t, "Thursday", LocalWeekday(now, offset))
}

func TestLocalDateMatchesUTCAwayFromMidnight(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	offset := 5*time.Hour + 30*time.Minute

	assert.Equal(t, "2025-05-15", LocalDate(now, offset))
	assert.Equal(t, "Thursday", LocalWeekday(now, offset))
}

func TestWeekdayOfDate(t *testing.T) {
	weekday, err := WeekdayOfDate("2025-06-04")
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", weekday)

	_, err = WeekdayOfDate("2025-13-01")
	assert.Error(t, err)

	_, err = WeekdayOfDate("not-a-date")
	assert.Error(t, err)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2025-06-04"))
	assert.False(t, ValidDate("2025-6-4"))
	assert.False(t, ValidDate(""))
}

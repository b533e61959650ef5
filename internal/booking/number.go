package booking

import (
	"fmt"
	"strconv"
	"strings"
)

const numberPrefix = "APT"

// NumberDateSegment converts a YYYY-MM-DD date into the YYYYMMDD segment
// embedded in appointment numbers.
func NumberDateSegment(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// FormatNumber renders APT-YYYYMMDD-NNN. The sequence is zero-padded to
// three digits and keeps growing past 999 without wrapping.
func FormatNumber(dateSegment string, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", numberPrefix, dateSegment, seq)
}

// SequenceOf parses the trailing sequence out of an appointment number.
func SequenceOf(number string) (int, error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != numberPrefix {
		return 0, fmt.Errorf("malformed appointment number %q", number)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("malformed appointment number %q: %w", number, err)
	}
	return seq, nil
}

// NextNumber issues the number after latest for the given day segment.
// An empty latest starts the day's sequence at 001. Because two concurrent
// bookings can both observe the same latest, the caller must treat a
// uniqueness violation on insert as ErrNumberTaken and retry.
func NextNumber(latest, dateSegment string) (string, error) {
	if latest == "" {
		return FormatNumber(dateSegment, 1), nil
	}
	seq, err := SequenceOf(latest)
	if err != nil {
		return "", err
	}
	return FormatNumber(dateSegment, seq+1), nil
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day/month/year format used on the wire for all trip dates.
const DateLayout = "02/01/2006"

// parseDateLayout accepts one- or two-digit day and month ("1/1/2024" and "01/01/2024").
const parseDateLayout = "2/1/2006"

// ParseDate parses a dd/mm/yyyy string into a UTC midnight time.
// Returns ErrValidation when s is empty or malformed.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	t, err := time.ParseInLocation(parseDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be in dd/mm/yyyy format", ErrValidation, field)
	}
	return t, nil
}

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

var timeOfDayLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// ParseTimeOfDay converts an activity time such as "9:00 AM", "3:00pm" or
// "15:00" into minutes after midnight.
func ParseTimeOfDay(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("%w: activity time is required", ErrValidation)
	}
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("%w: activity time %q must look like 9:00 AM", ErrValidation, s)
}

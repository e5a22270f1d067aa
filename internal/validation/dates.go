package validation

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Numeric dates with the year last are read
// day first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

// ParseDate reads a document date. It reports false for anything it does
// not recognise.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AgeOn returns the number of whole years between dob and day.
func AgeOn(dob, day time.Time) int {
	age := day.Year() - dob.Year()
	if day.Month() < dob.Month() || (day.Month() == dob.Month() && day.Day() < dob.Day()) {
		age--
	}
	return age
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

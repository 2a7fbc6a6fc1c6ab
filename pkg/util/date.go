package util

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the form layout for calendar dates.
const DateLayout = "2006-01-02"

// ordinalEpochOffset is the proleptic Gregorian ordinal of 1970-01-01 (0001-01-01 = 1).
const ordinalEpochOffset = 719163

const secondsPerDay = 24 * 60 * 60

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date. Year 0 is rejected.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() < 1 {
		return time.Time{}, fmt.Errorf("year %d out of range", t.Year())
	}
	return t, nil
}

// DateOrdinal returns the proleptic Gregorian day number of t's calendar date,
// where 0001-01-01 is day 1.
func DateOrdinal(t time.Time) int64 {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return floorDiv(d.Unix(), secondsPerDay) + ordinalEpochOffset
}

// FromOrdinal is the inverse of DateOrdinal.
func FromOrdinal(n int64) time.Time {
	return time.Unix((n-ordinalEpochOffset)*secondsPerDay, 0).UTC()
}

// FormatLongDate renders t as "02 January 2006".
func FormatLongDate(t time.Time) string {
	return t.Format("02 January 2006")
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

package analytics

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrUnparseableDate = errors.New("unparseable date")

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var (
	dayMonthYearRegex = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{2}|\d{4})$`)
	yearMonthDayRegex = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)
)

// ParseDate normalizes a free-form workout date into a UTC midnight calendar date.
// Accepted forms, first match wins: ISO 8601 (date or date-time), D/M/Y and M/D/Y with
// '/', '.' or '-' separators and 2 or 4 digit years, and Y-M-D with unpadded parts.
// When both D/M/Y and M/D/Y are valid, D/M/Y wins (05/04/2023 is 5 April).
func ParseDate(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, ErrUnparseableDate
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// keep the calendar day as written, regardless of offset
			return calendarDate(t.Year(), t.Month(), t.Day()), nil
		}
	}

	if m := dayMonthYearRegex.FindStringSubmatch(s); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}

		if first <= 31 && second <= 12 {
			if d, ok := exactDate(year, second, first); ok {
				return d, nil
			}
		}
		if first <= 12 && second <= 31 {
			if d, ok := exactDate(year, first, second); ok {
				return d, nil
			}
		}
	}

	if m := yearMonthDayRegex.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			if d, ok := exactDate(year, month, day); ok {
				return d, nil
			}
		}
	}

	return time.Time{}, ErrUnparseableDate
}

// exactDate builds the date and rejects anything time.Date had to normalize (31 Feb, month 13).
func exactDate(year, month, day int) (time.Time, bool) {
	if month < 1 || day < 1 {
		return time.Time{}, false
	}
	d := calendarDate(year, time.Month(month), day)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func calendarDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// weekMonday returns the Monday on or before the given day.
func weekMonday(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

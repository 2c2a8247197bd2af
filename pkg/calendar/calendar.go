// Package calendar enumerates the days of a schedule month and groups them
// into ISO weeks (Monday through Sunday), tagging the partial first/last
// weeks that a month's boundary produces.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DaysOf returns every calendar date of month (format "YYYY-MM") in
// ascending order. Leap years are honored because it walks through
// time.Time arithmetic rather than a fixed days-per-month table.
func DaysOf(month string) ([]time.Time, error) {
	year, m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	days := make([]time.Time, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// WeeksOf partitions an ascending day list into contiguous ISO weeks
// (Monday..Sunday). A week group is closed right after an ISO Sunday or
// after the last date in days, whichever comes first — so the first and
// last weeks of a month may be shorter than seven days.
func WeeksOf(days []time.Time) [][]time.Time {
	if len(days) == 0 {
		return nil
	}

	var weeks [][]time.Time
	var current []time.Time

	for _, d := range days {
		current = append(current, d)
		if d.Weekday() == time.Sunday {
			weeks = append(weeks, current)
			current = nil
		}
	}
	if len(current) > 0 {
		weeks = append(weeks, current)
	}
	return weeks
}

func parseMonth(month string) (int, int, error) {
	parts := strings.Split(month, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("calendar: invalid month %q, want YYYY-MM", month)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("calendar: invalid year in %q: %w", month, err)
	}
	if year <= 1970 {
		return 0, 0, fmt.Errorf("calendar: year %d must be > 1970", year)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("calendar: invalid month in %q: %w", month, err)
	}
	if m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("calendar: month %d out of range [1, 12]", m)
	}

	return year, m, nil
}

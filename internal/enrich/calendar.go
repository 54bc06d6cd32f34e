package enrich

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day-of-week numbering is ISO-8601: Monday=1 ... Sunday=7.
// DayNames[d-1] is the name of day d, MonthNames[m-1] of month m.
var (
	DayNames = []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	}

	MonthNames = []string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
)

// Weekday returns the ISO weekday of t (Monday=1, Sunday=7)
func Weekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// DayName returns the lower-case name of ISO weekday d
func DayName(d int) string {
	if d < 1 || d > len(DayNames) {
		return ""
	}
	return DayNames[d-1]
}

// MonthName returns the lower-case name of month m
func MonthName(m int) string {
	if m < 1 || m > len(MonthNames) {
		return ""
	}
	return MonthNames[m-1]
}

// ParseMonth accepts a month number ("6"), a full name ("june") or a
// three-letter abbreviation ("jun"), case-insensitively.
func ParseMonth(value string) (int, error) {
	return parseCalendarName(value, MonthNames, "month")
}

// ParseDay accepts an ISO weekday number ("1" = Monday), a full name or a
// three-letter abbreviation.
func ParseDay(value string) (int, error) {
	return parseCalendarName(value, DayNames, "day")
}

// ParseMonths parses a list of months; items may be comma separated
func ParseMonths(values []string) ([]int, error) {
	return parseList(values, ParseMonth)
}

// ParseDays parses a list of days; items may be comma separated
func ParseDays(values []string) ([]int, error) {
	return parseList(values, ParseDay)
}

func parseCalendarName(value string, names []string, kind string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0, fmt.Errorf("empty %s", kind)
	}

	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > len(names) {
			return 0, fmt.Errorf("%s %d out of range 1-%d", kind, n, len(names))
		}
		return n, nil
	}

	for i, name := range names {
		if v == name || (len(v) == 3 && strings.HasPrefix(name, v)) {
			return i + 1, nil
		}
	}

	return 0, fmt.Errorf("unknown %s %q", kind, value)
}

func parseList(values []string, parse func(string) (int, error)) ([]int, error) {
	var result []int
	seen := make(map[int]bool)

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" || strings.EqualFold(part, "all") {
				continue
			}
			n, err := parse(part)
			if err != nil {
				return nil, err
			}
			if !seen[n] {
				seen[n] = true
				result = append(result, n)
			}
		}
	}

	return result, nil
}

package query

import (
	"bikeshare-platform/internal/models"
)

const (
	monthsInYear = 12
	daysInWeek   = 7
)

// FilterBy keeps the trips whose month is in months and whose ISO weekday
// is in days. An empty or complete set does not filter.
func FilterBy(table *models.Table, months, days []int) *models.Table {
	monthSet := selection(months, monthsInYear)
	daySet := selection(days, daysInWeek)

	if monthSet == nil && daySet == nil {
		return table
	}

	trips := make([]models.Trip, 0, len(table.Trips))
	for _, trip := range table.Trips {
		if monthSet != nil && !monthSet[trip.Month] {
			continue
		}
		if daySet != nil && !daySet[trip.DayOfWeek] {
			continue
		}
		trips = append(trips, trip)
	}

	return table.WithTrips(trips)
}

// Apply runs FilterBy with the months and days of filter
func Apply(table *models.Table, filter models.Filter) *models.Table {
	return FilterBy(table, filter.Months, filter.Days)
}

// selection returns nil when values select the whole 1..size domain
func selection(values []int, size int) map[int]bool {
	if len(values) == 0 {
		return nil
	}

	set := make(map[int]bool, len(values))
	inDomain := 0
	for _, v := range values {
		if set[v] {
			continue
		}
		set[v] = true
		if v >= 1 && v <= size {
			inDomain++
		}
	}

	if inDomain == size {
		return nil
	}
	return set
}

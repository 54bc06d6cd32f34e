// Package enrich derives calendar fields and generation labels for trips.
package enrich

import (
	"bikeshare-platform/internal/models"
)

// Enrich returns a copy of table with Month, DayOfWeek, StartHour and,
// when birth years are present, Generation filled in. The input table is
// not modified.
func Enrich(table *models.Table, generations BucketTable) *models.Table {
	trips := make([]models.Trip, len(table.Trips))

	for i, trip := range table.Trips {
		trips[i] = EnrichTrip(trip, generations)
	}

	enriched := table.WithTrips(trips)
	enriched.Enriched = true
	return enriched
}

// EnrichTrip derives the calendar and generation fields of a single trip
func EnrichTrip(trip models.Trip, generations BucketTable) models.Trip {
	trip.Month = int(trip.StartTime.Month())
	trip.DayOfWeek = Weekday(trip.StartTime)
	trip.StartHour = trip.StartTime.Hour()

	trip.Generation = ""
	if trip.BirthYear != nil {
		if label, ok := generations.Classify(*trip.BirthYear); ok {
			trip.Generation = label
		}
	}

	return trip
}

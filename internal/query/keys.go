// Package query implements the aggregation queries run against an
// enriched trip table. All functions are stateless and never modify the
// table they receive.
package query

import (
	"bikeshare-platform/internal/models"
)

// Key extracts a grouping value from a trip. The boolean is false when
// the trip has no value for the key.
type Key[K comparable] func(models.Trip) (K, bool)

var (
	Month     Key[int] = func(t models.Trip) (int, bool) { return t.Month, true }
	DayOfWeek Key[int] = func(t models.Trip) (int, bool) { return t.DayOfWeek, true }
	StartHour Key[int] = func(t models.Trip) (int, bool) { return t.StartHour, true }

	// "" marks a missing station or user type
	StartStation Key[string] = func(t models.Trip) (string, bool) { return t.StartStation, t.StartStation != "" }
	EndStation   Key[string] = func(t models.Trip) (string, bool) { return t.EndStation, t.EndStation != "" }
	UserType     Key[string] = func(t models.Trip) (string, bool) { return t.UserType, t.UserType != "" }

	Gender Key[string] = func(t models.Trip) (string, bool) {
		if t.Gender == nil {
			return "", false
		}
		return *t.Gender, true
	}

	Generation Key[string] = func(t models.Trip) (string, bool) {
		return t.Generation, t.Generation != ""
	}

	BirthYear Key[int] = func(t models.Trip) (int, bool) {
		if t.BirthYear == nil {
			return 0, false
		}
		return *t.BirthYear, true
	}

	StationPair Key[models.StationPair] = func(t models.Trip) (models.StationPair, bool) {
		return models.StationPair{Start: t.StartStation, End: t.EndStation}, t.StartStation != "" && t.EndStation != ""
	}
)

package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names used by the city datasets
const (
	ColumnStartTime    = "Start Time"
	ColumnTripDuration = "Trip Duration"
	ColumnStartStation = "Start Station"
	ColumnEndStation   = "End Station"
	ColumnUserType     = "User Type"
	ColumnGender       = "Gender"
	ColumnBirthYear    = "Birth Year"
	ColumnGeneration   = "Generation"
)

// RequiredColumns lists the columns every dataset must carry
var RequiredColumns = []string{
	ColumnStartTime,
	ColumnTripDuration,
	ColumnStartStation,
	ColumnEndStation,
	ColumnUserType,
}

// timestampLayouts are tried in order when parsing Start Time
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// Trip represents a single bike-share ride.
// Optional demographics are pointers; nil means the value is missing.
// Month, DayOfWeek, StartHour and Generation are derived and only set on
// enriched tables.
type Trip struct {
	StartTime       time.Time `json:"start_time" db:"start_time"`
	DurationSeconds float64   `json:"trip_duration_seconds" db:"trip_duration"`
	StartStation    string    `json:"start_station" db:"start_station"`
	EndStation      string    `json:"end_station" db:"end_station"`
	UserType        string    `json:"user_type" db:"user_type"`
	Gender          *string   `json:"gender,omitempty" db:"gender"`
	BirthYear       *int      `json:"birth_year,omitempty" db:"birth_year"`

	Month      int    `json:"month"`
	DayOfWeek  int    `json:"day_of_week"`
	StartHour  int    `json:"start_hour"`
	Generation string `json:"generation,omitempty"`
}

// Table is the in-memory trip table of one city.
// It is read-only once loaded; filtering produces a new Table.
type Table struct {
	City         string `json:"city"`
	Trips        []Trip `json:"trips"`
	HasGender    bool   `json:"has_gender"`
	HasBirthYear bool   `json:"has_birth_year"`
	Enriched     bool   `json:"enriched"`
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Trips)
}

// WithTrips returns a table sharing t's metadata but holding trips
func (t *Table) WithTrips(trips []Trip) *Table {
	return &Table{
		City:         t.City,
		Trips:        trips,
		HasGender:    t.HasGender,
		HasBirthYear: t.HasBirthYear,
		Enriched:     t.Enriched,
	}
}

// Head returns at most n rows from the top of the table
func (t *Table) Head(n int) []Trip {
	if n < 0 || n > t.Len() {
		n = t.Len()
	}
	return t.Trips[:n]
}

// RawTripRecord represents a single dataset row before type conversion.
// Optional fields are nil when the column is absent from the dataset.
type RawTripRecord struct {
	Line         int
	StartTime    string
	TripDuration string
	StartStation string
	EndStation   string
	UserType     string
	Gender       *string
	BirthYear    *string
}

// ToTrip converts the raw record into a Trip.
// Missing optional values ("", NaN, NA) become nil and missing station or
// user type cells become "", which every query treats as absent. A start
// time or duration that cannot be parsed yields a MalformedRecordError.
func (r *RawTripRecord) ToTrip() (Trip, error) {
	start, err := ParseTimestamp(r.StartTime)
	if err != nil {
		return Trip{}, &MalformedRecordError{
			Line:   r.Line,
			Column: ColumnStartTime,
			Value:  r.StartTime,
			Err:    err,
		}
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(r.TripDuration), 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return Trip{}, &MalformedRecordError{
			Line:   r.Line,
			Column: ColumnTripDuration,
			Value:  r.TripDuration,
			Err:    err,
		}
	}
	if duration < 0 {
		return Trip{}, &MalformedRecordError{
			Line:   r.Line,
			Column: ColumnTripDuration,
			Value:  r.TripDuration,
		}
	}

	trip := Trip{
		StartTime:       start,
		DurationSeconds: duration,
		StartStation:    cellValue(r.StartStation),
		EndStation:      cellValue(r.EndStation),
		UserType:        cellValue(r.UserType),
	}

	if r.Gender != nil && !IsMissing(*r.Gender) {
		g := strings.TrimSpace(*r.Gender)
		trip.Gender = &g
	}

	if r.BirthYear != nil && !IsMissing(*r.BirthYear) {
		// datasets store birth years as floats ("1992.0")
		year, err := strconv.ParseFloat(strings.TrimSpace(*r.BirthYear), 64)
		if err != nil || math.IsInf(year, 0) {
			return Trip{}, &MalformedRecordError{
				Line:   r.Line,
				Column: ColumnBirthYear,
				Value:  *r.BirthYear,
				Err:    err,
			}
		}
		y := int(year)
		trip.BirthYear = &y
	}

	return trip, nil
}

// ParseTimestamp parses a dataset start time. Timestamps without a zone
// are interpreted as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}

// cellValue trims a string cell, mapping missing markers to ""
func cellValue(value string) string {
	if IsMissing(value) {
		return ""
	}
	return strings.TrimSpace(value)
}

// IsMissing reports whether a raw cell holds no value
func IsMissing(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "NaN", "NA", "nan", "<nil>":
		return true
	default:
		return false
	}
}

package models

// Counted pairs a grouped value with its number of trips
type Counted[K comparable] struct {
	Value K   `json:"value"`
	Count int `json:"count"`
}

// StationPair is a start/end station combination
type StationPair struct {
	Start string `json:"start_station"`
	End   string `json:"end_station"`
}

// MonthDuration is the summed trip duration of one month
type MonthDuration struct {
	Month        int     `json:"month"`
	TotalSeconds float64 `json:"total_seconds"`
}

// Filter restricts a table to months (1-12) and ISO weekdays (1=Monday).
// Empty slices select everything.
type Filter struct {
	Months []int `json:"months,omitempty"`
	Days   []int `json:"days,omitempty"`
}

// LoadReport summarises a dataset load
type LoadReport struct {
	City        string   `json:"city"`
	Source      string   `json:"source"`
	TotalRows   int      `json:"total_rows"`
	LoadedRows  int      `json:"loaded_rows"`
	SkippedRows int      `json:"skipped_rows"`
	Errors      []string `json:"errors,omitempty"`
}

// Overview holds the unfiltered statistics shown before filters apply
type Overview struct {
	City                  string             `json:"city"`
	Rows                  int                `json:"rows"`
	MissingValues         map[string]int     `json:"missing_values"`
	MonthlyDuration       []MonthDuration    `json:"monthly_duration"`
	DurationByGeneration  map[string]float64 `json:"duration_by_generation,omitempty"`
	TripCountByGeneration []Counted[string]  `json:"trip_count_by_generation,omitempty"`
	HasGeneration         bool               `json:"has_generation"`
}

// PopularTimes holds the most frequent month, weekday and start hour
type PopularTimes struct {
	Month     int `json:"month"`
	DayOfWeek int `json:"day_of_week"`
	StartHour int `json:"start_hour"`
}

// DurationStats holds the total and mean trip duration in seconds
type DurationStats struct {
	TotalSeconds float64 `json:"total_seconds"`
	MeanSeconds  float64 `json:"mean_seconds"`
}

// BirthYearStats holds the earliest, latest and most common birth year
type BirthYearStats struct {
	Earliest   int `json:"earliest"`
	Latest     int `json:"latest"`
	MostCommon int `json:"most_common"`
}

// Report holds the statistics computed after the month/day filter
type Report struct {
	City             string                 `json:"city"`
	Filter           Filter                 `json:"filter"`
	Rows             int                    `json:"rows"`
	PopularTimes     PopularTimes           `json:"popular_times"`
	Duration         DurationStats          `json:"duration"`
	TopStartStations []Counted[string]      `json:"top_start_stations"`
	TopEndStations   []Counted[string]      `json:"top_end_stations"`
	TopStationPairs  []Counted[StationPair] `json:"top_station_pairs"`
	UserTypes        map[string]int         `json:"user_types"`
	Genders          map[string]int         `json:"genders,omitempty"`
	BirthYears       *BirthYearStats        `json:"birth_years,omitempty"`
}

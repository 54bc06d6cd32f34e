package display

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-platform/internal/models"
)

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"two days", Days(172800), 2},
		{"small day fraction", Days(1000), 0.01},
		{"hours", Hours(5400), 1.5},
		{"quarter hour", Hours(900), 0.25},
		{"minutes", Minutes(450), 7.5},
		{"minutes rounded", Minutes(100), 1.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got, 1e-9)
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "New York City", Title("new york city"))
	assert.Equal(t, "June", Title("june"))
}

func TestBarChart(t *testing.T) {
	chart := BarChart([]Bar{{Label: "a", Value: 10}, {Label: "bb", Value: 5}, {Label: "c", Value: 0.01}}, "%.0f")
	lines := strings.Split(chart, "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, BarWidth, strings.Count(lines[0], "█"))
	assert.Equal(t, BarWidth/2, strings.Count(lines[1], "█"))
	// non-zero values always get a visible bar
	assert.Equal(t, 1, strings.Count(lines[2], "█"))
	assert.Contains(t, lines[1], "bb")

	assert.Contains(t, BarChart(nil, "%.0f"), "no data")
}

func sampleReport() *models.Report {
	return &models.Report{
		City:   "chicago",
		Filter: models.Filter{Months: []int{6}},
		Rows:   2,
		PopularTimes: models.PopularTimes{
			Month:     6,
			DayOfWeek: 4,
			StartHour: 8,
		},
		Duration:         models.DurationStats{TotalSeconds: 900, MeanSeconds: 450},
		TopStartStations: []models.Counted[string]{{Value: "Canal St", Count: 2}, {Value: "Lake St", Count: 1}},
		TopEndStations:   []models.Counted[string]{{Value: "Clark St", Count: 3}},
		TopStationPairs: []models.Counted[models.StationPair]{
			{Value: models.StationPair{Start: "Canal St", End: "Clark St"}, Count: 2},
		},
		UserTypes:  map[string]int{"Subscriber": 2, "Customer": 1},
		Genders:    map[string]int{"Female": 1},
		BirthYears: &models.BirthYearStats{Earliest: 1950, Latest: 1990, MostCommon: 1985},
	}
}

func TestRenderReport(t *testing.T) {
	out := RenderReport(sampleReport())

	for _, want := range []string{
		"Chicago: 2 trips for June; all days",
		"The most common month is",
		"June",
		"Thursday",
		"0.25 hours",
		"7.5 minutes",
		"Canal St -> Clark St",
		"Subscriber",
		"Count of users per gender",
		"The most recent year of birth is",
		"1990",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderReport_OptionalSections(t *testing.T) {
	report := sampleReport()
	report.Genders = nil
	report.BirthYears = nil

	out := RenderReport(report)
	assert.NotContains(t, out, "Count of users per gender")
	assert.NotContains(t, out, "User stats by birth")
}

func TestRenderOverview(t *testing.T) {
	out := RenderOverview(&models.Overview{
		City:            "new york city",
		Rows:            3,
		MissingValues:   map[string]int{models.ColumnGender: 2, models.ColumnBirthYear: 1},
		MonthlyDuration: []models.MonthDuration{{Month: 1, TotalSeconds: 86400}, {Month: 2, TotalSeconds: 43200}},
		DurationByGeneration: map[string]float64{
			"Generation X": 86400,
		},
		TripCountByGeneration: []models.Counted[string]{{Value: "Generation X", Count: 3}},
		HasGeneration:         true,
	})

	assert.Contains(t, out, "New York City (3 trips)")
	assert.Contains(t, out, "Missing values per column")
	assert.Less(t, strings.Index(out, models.ColumnGender), strings.Index(out, models.ColumnBirthYear))
	assert.Contains(t, out, "January")
	assert.Contains(t, out, "0.50")
	assert.Contains(t, out, "Number of trips per generation")
	assert.Contains(t, out, "Generation X")

	plain := RenderOverview(&models.Overview{City: "washington"})
	assert.NotContains(t, plain, "Missing values")
	assert.NotContains(t, plain, "generation")
}

func TestRenderTrips(t *testing.T) {
	gender := "Male"
	year := 1992
	out := RenderTrips("chicago", []models.Trip{{
		StartTime:       time.Date(2017, 6, 23, 15, 9, 32, 0, time.UTC),
		DurationSeconds: 321,
		StartStation:    "Wood St & Hubbard St",
		EndStation:      "Damen Ave & Chicago Ave",
		UserType:        "Subscriber",
		Gender:          &gender,
		BirthYear:       &year,
		Month:           6,
		DayOfWeek:       5,
		StartHour:       15,
		Generation:      "Generation Y (Millenials)",
	}})

	assert.Contains(t, out, "Raw data for Chicago bike trips")
	assert.Contains(t, out, "Start Station")
	assert.Contains(t, out, "2017-06-23 15:09:32")
	assert.Contains(t, out, "Wood St & Hubbard St")
	assert.Contains(t, out, "Generation Y (Millenials)")
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&models.UnknownCityError{City: "paris"}, `Unknown city "paris".`},
		{&models.DatasetUnavailableError{City: "washington", Location: "data/washington.csv"}, "The data file for Washington is not available."},
		{&models.EmptyInputError{Query: "most_common"}, "No trips match the selected months and days."},
		{errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.err))
	}

	assert.Contains(t, Message(&models.MalformedRecordError{Line: 4, Column: "Start Time", Value: "x"}), "line 4")
	assert.Contains(t, RenderError(errors.New("boom")), "boom")
}

func TestFilterLabel(t *testing.T) {
	assert.Equal(t, "all months; all days", FilterLabel(models.Filter{}))
	assert.Equal(t, "March, April; Monday, Sunday", FilterLabel(models.Filter{Months: []int{3, 4}, Days: []int{1, 7}}))
}

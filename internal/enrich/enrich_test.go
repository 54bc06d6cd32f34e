package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-platform/internal/models"
)

func intPtr(i int) *int { return &i }

func TestEnrich(t *testing.T) {
	table := &models.Table{
		City:         "chicago",
		HasBirthYear: true,
		Trips: []models.Trip{
			{
				StartTime:       time.Date(2017, 6, 15, 8, 0, 0, 0, time.UTC),
				DurationSeconds: 300,
				StartStation:    "A",
				EndStation:      "B",
				BirthYear:       intPtr(1990),
			},
			{
				StartTime:       time.Date(2017, 1, 2, 9, 0, 0, 0, time.UTC),
				DurationSeconds: 600,
				StartStation:    "B",
				EndStation:      "A",
				BirthYear:       intPtr(1950),
			},
			{
				StartTime:       time.Date(2017, 1, 1, 23, 59, 0, 0, time.UTC),
				DurationSeconds: 60,
				StartStation:    "C",
				EndStation:      "C",
			},
		},
	}

	enriched := Enrich(table, DefaultGenerations)
	require.Len(t, enriched.Trips, 3)
	assert.True(t, enriched.Enriched)
	assert.Equal(t, "chicago", enriched.City)
	assert.True(t, enriched.HasBirthYear)

	first := enriched.Trips[0]
	assert.Equal(t, 6, first.Month)
	assert.Equal(t, 4, first.DayOfWeek) // Thursday
	assert.Equal(t, 8, first.StartHour)
	assert.Equal(t, "Generation Y (Millenials)", first.Generation)

	second := enriched.Trips[1]
	assert.Equal(t, 1, second.Month)
	assert.Equal(t, 1, second.DayOfWeek) // Monday
	assert.Equal(t, 9, second.StartHour)
	assert.Equal(t, "Baby Boomers", second.Generation)

	third := enriched.Trips[2]
	assert.Equal(t, 7, third.DayOfWeek) // Sunday
	assert.Equal(t, 23, third.StartHour)
	assert.Empty(t, third.Generation)

	// input untouched
	assert.Zero(t, table.Trips[0].Month)
	assert.False(t, table.Enriched)
}

func TestEnrich_UnmatchedYearLeavesGenerationEmpty(t *testing.T) {
	partial := BucketTable{{Years: Closed(1980, 1999), Label: "millennial"}}
	table := &models.Table{Trips: []models.Trip{
		{StartTime: time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC), BirthYear: intPtr(1950)},
	}}

	enriched := Enrich(table, partial)
	assert.Empty(t, enriched.Trips[0].Generation)
}

func TestEnrich_EmptyTable(t *testing.T) {
	enriched := Enrich(&models.Table{City: "washington"}, DefaultGenerations)
	assert.Equal(t, 0, enriched.Len())
	assert.True(t, enriched.Enriched)
}

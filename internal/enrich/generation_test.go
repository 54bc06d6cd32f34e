package enrich

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGenerations_Validate(t *testing.T) {
	require.NoError(t, DefaultGenerations.Validate())
}

// Every year in a wide range must match exactly one bucket, and the first
// match must be that bucket.
func TestDefaultGenerations_ExhaustiveAndDisjoint(t *testing.T) {
	years := []int{math.MinInt, math.MinInt + 1, math.MaxInt - 1, math.MaxInt}
	for y := -100000; y <= 100000; y++ {
		years = append(years, y)
	}

	for _, year := range years {
		matches := 0
		var matched string
		for _, bucket := range DefaultGenerations {
			if bucket.Years.Contains(year) {
				matches++
				matched = bucket.Label
			}
		}
		if matches != 1 {
			t.Fatalf("year %d matched %d buckets, want exactly 1", year, matches)
		}

		label, ok := DefaultGenerations.Classify(year)
		if !ok || label != matched {
			t.Fatalf("Classify(%d) = %q, %v; want %q", year, label, ok, matched)
		}
	}
}

func TestDefaultGenerations_Classify(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2010, "Generation Z"},
		{2000, "Generation Z"},
		{1999, "Generation Y (Millenials)"},
		{1990, "Generation Y (Millenials)"},
		{1980, "Generation Y (Millenials)"},
		{1979, "Generation X"},
		{1965, "Generation X"},
		{1964, "Baby Boomers"},
		{1950, "Baby Boomers"},
		{1946, "Baby Boomers"},
		{1945, "the Silent Generation"},
		{1925, "the Silent Generation"},
		{1924, "the G.I. Generation"},
		{1900, "the G.I. Generation"},
		{1899, "born before year 1900"},
		{0, "born before year 1900"},
		{-5, "born before year 1900"},
	}

	for _, tt := range tests {
		label, ok := DefaultGenerations.Classify(tt.year)
		assert.True(t, ok, "year %d", tt.year)
		assert.Equal(t, tt.want, label, "year %d", tt.year)
	}
}

func TestBucketTable_FirstMatchWins(t *testing.T) {
	table := BucketTable{
		{Years: Closed(1990, 2000), Label: "first"},
		{Years: Closed(1995, 2005), Label: "second"},
	}

	label, ok := table.Classify(1997)
	assert.True(t, ok)
	assert.Equal(t, "first", label)

	_, ok = table.Classify(1800)
	assert.False(t, ok)
}

func TestBucketTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   BucketTable
		wantErr string
	}{
		{
			name:    "empty",
			table:   BucketTable{},
			wantErr: "empty",
		},
		{
			name: "overlap",
			table: BucketTable{
				{Years: AtMost(1990), Label: "old"},
				{Years: AtLeast(1990), Label: "new"},
			},
			wantErr: "overlap",
		},
		{
			name: "gap",
			table: BucketTable{
				{Years: AtMost(1980), Label: "old"},
				{Years: AtLeast(1990), Label: "new"},
			},
			wantErr: "not covered",
		},
		{
			name: "open below missing",
			table: BucketTable{
				{Years: Closed(1900, 1999), Label: "old"},
				{Years: AtLeast(2000), Label: "new"},
			},
			wantErr: "below",
		},
		{
			name: "open above missing",
			table: BucketTable{
				{Years: AtMost(1999), Label: "old"},
				{Years: Closed(2000, 2010), Label: "new"},
			},
			wantErr: "above",
		},
		{
			name: "inverted range",
			table: BucketTable{
				{Years: AtMost(1999), Label: "old"},
				{Years: Closed(2010, 2000), Label: "bad"},
				{Years: AtLeast(2000), Label: "new"},
			},
			wantErr: "empty range",
		},
		{
			name: "unordered but valid",
			table: BucketTable{
				{Years: AtLeast(2000), Label: "new"},
				{Years: AtMost(1999), Label: "old"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestYearRange_String(t *testing.T) {
	assert.Equal(t, "[1980, 1999]", Closed(1980, 1999).String())
	assert.Equal(t, "(-inf, 1899]", AtMost(1899).String())
	assert.Equal(t, "[2000, +inf)", AtLeast(2000).String())
}

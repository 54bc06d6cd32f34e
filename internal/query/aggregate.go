package query

import (
	"sort"

	"bikeshare-platform/internal/models"
)

// DefaultTopK is the number of entries returned by the top-k queries
const DefaultTopK = 5

// countBy groups rows by key. order lists the keys in order of first
// occurrence, which is the tie-break used by every ranking query.
func countBy[K comparable](table *models.Table, key Key[K]) (map[K]int, []K) {
	counts := make(map[K]int)
	var order []K

	for _, trip := range table.Trips {
		value, ok := key(trip)
		if !ok {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	return counts, order
}

// CountsByCategory counts trips per value of key. Trips without a value
// are skipped.
func CountsByCategory[K comparable](table *models.Table, key Key[K]) map[K]int {
	counts, _ := countBy(table, key)
	return counts
}

// MostCommon returns the most frequent value of key. Ties go to the value
// that occurs first in the table.
func MostCommon[K comparable](table *models.Table, key Key[K]) (K, error) {
	counts, order := countBy(table, key)

	var best K
	if len(order) == 0 {
		return best, &models.EmptyInputError{Query: "most_common"}
	}

	bestCount := 0
	for _, value := range order {
		if counts[value] > bestCount {
			best, bestCount = value, counts[value]
		}
	}

	return best, nil
}

// TopKByCount returns up to k values of key ordered by descending count.
// Equal counts keep first-occurrence order. k <= 0 returns every value.
func TopKByCount[K comparable](table *models.Table, key Key[K], k int) []models.Counted[K] {
	counts, order := countBy(table, key)

	ranked := make([]models.Counted[K], 0, len(order))
	for _, value := range order {
		ranked = append(ranked, models.Counted[K]{Value: value, Count: counts[value]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// TopStationPairs returns the k most frequent start/end station pairs
func TopStationPairs(table *models.Table, k int) []models.Counted[models.StationPair] {
	return TopKByCount(table, StationPair, k)
}

// TotalAndMeanDuration returns the summed and mean trip duration in seconds
func TotalAndMeanDuration(table *models.Table) (float64, float64, error) {
	if table.Len() == 0 {
		return 0, 0, &models.EmptyInputError{Query: "total_and_mean_duration"}
	}

	var total float64
	for _, trip := range table.Trips {
		total += trip.DurationSeconds
	}

	return total, total / float64(len(table.Trips)), nil
}

// MonthlyTripDuration sums trip durations per month, sorted by month
func MonthlyTripDuration(table *models.Table) []models.MonthDuration {
	totals := make(map[int]float64)
	for _, trip := range table.Trips {
		totals[trip.Month] += trip.DurationSeconds
	}

	result := make([]models.MonthDuration, 0, len(totals))
	for month, total := range totals {
		result = append(result, models.MonthDuration{Month: month, TotalSeconds: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })

	return result
}

// DurationByGeneration sums trip durations per generation label. Trips
// without a generation are skipped.
func DurationByGeneration(table *models.Table) map[string]float64 {
	totals := make(map[string]float64)
	for _, trip := range table.Trips {
		if trip.Generation == "" {
			continue
		}
		totals[trip.Generation] += trip.DurationSeconds
	}
	return totals
}

// TripCountByGeneration counts trips per generation, most frequent first
func TripCountByGeneration(table *models.Table) []models.Counted[string] {
	return TopKByCount(table, Generation, 0)
}

// BirthYearStats returns the earliest, latest and most common birth year
func BirthYearStats(table *models.Table) (models.BirthYearStats, error) {
	mostCommon, err := MostCommon(table, BirthYear)
	if err != nil {
		return models.BirthYearStats{}, &models.EmptyInputError{Query: "birth_year_stats"}
	}

	stats := models.BirthYearStats{
		Earliest:   mostCommon,
		Latest:     mostCommon,
		MostCommon: mostCommon,
	}
	for _, trip := range table.Trips {
		if trip.BirthYear == nil {
			continue
		}
		year := *trip.BirthYear
		if year < stats.Earliest {
			stats.Earliest = year
		}
		if year > stats.Latest {
			stats.Latest = year
		}
	}

	return stats, nil
}

// MissingValues counts missing values per column. Optional columns are
// only counted when present in the table, and Generation only once the
// table is enriched. Columns without missing values are omitted.
func MissingValues(table *models.Table) map[string]int {
	missing := make(map[string]int)

	for _, trip := range table.Trips {
		if trip.StartStation == "" {
			missing[models.ColumnStartStation]++
		}
		if trip.EndStation == "" {
			missing[models.ColumnEndStation]++
		}
		if trip.UserType == "" {
			missing[models.ColumnUserType]++
		}
		if table.HasGender && trip.Gender == nil {
			missing[models.ColumnGender]++
		}
		if table.HasBirthYear && trip.BirthYear == nil {
			missing[models.ColumnBirthYear]++
		}
		if table.HasBirthYear && table.Enriched && trip.Generation == "" {
			missing[models.ColumnGeneration]++
		}
	}

	return missing
}

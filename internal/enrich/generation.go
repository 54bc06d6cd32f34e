package enrich

import (
	"fmt"
	"math"
	"sort"
)

// YearRange is an inclusive birth-year range. Unbounded ends use
// math.MinInt / math.MaxInt.
type YearRange struct {
	Min int
	Max int
}

// Closed returns the range [min, max]
func Closed(min, max int) YearRange {
	return YearRange{Min: min, Max: max}
}

// AtMost returns the range (-inf, max]
func AtMost(max int) YearRange {
	return YearRange{Min: math.MinInt, Max: max}
}

// AtLeast returns the range [min, +inf)
func AtLeast(min int) YearRange {
	return YearRange{Min: min, Max: math.MaxInt}
}

// Contains reports whether year falls inside the range
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

func (r YearRange) String() string {
	switch {
	case r.Min == math.MinInt && r.Max == math.MaxInt:
		return "(-inf, +inf)"
	case r.Min == math.MinInt:
		return fmt.Sprintf("(-inf, %d]", r.Max)
	case r.Max == math.MaxInt:
		return fmt.Sprintf("[%d, +inf)", r.Min)
	default:
		return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
	}
}

// Bucket labels a birth-year range
type Bucket struct {
	Years YearRange
	Label string
}

// BucketTable is an ordered list of buckets; the first match wins
type BucketTable []Bucket

// DefaultGenerations is the generational cohort table
var DefaultGenerations = BucketTable{
	{Years: AtLeast(2000), Label: "Generation Z"},
	{Years: Closed(1980, 1999), Label: "Generation Y (Millenials)"},
	{Years: Closed(1965, 1979), Label: "Generation X"},
	{Years: Closed(1946, 1964), Label: "Baby Boomers"},
	{Years: Closed(1925, 1945), Label: "the Silent Generation"},
	{Years: Closed(1900, 1924), Label: "the G.I. Generation"},
	{Years: AtMost(1899), Label: "born before year 1900"},
}

// Classify returns the label of the first bucket containing year
func (b BucketTable) Classify(year int) (string, bool) {
	for _, bucket := range b {
		if bucket.Years.Contains(year) {
			return bucket.Label, true
		}
	}
	return "", false
}

// Labels returns the bucket labels in table order
func (b BucketTable) Labels() []string {
	labels := make([]string, len(b))
	for i, bucket := range b {
		labels[i] = bucket.Label
	}
	return labels
}

// Validate checks that the buckets are well formed, non-overlapping and
// together cover every representable year.
func (b BucketTable) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("bucket table is empty")
	}

	sorted := make(BucketTable, len(b))
	copy(sorted, b)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Years.Min < sorted[j].Years.Min })

	for _, bucket := range sorted {
		if bucket.Label == "" {
			return fmt.Errorf("bucket %s has no label", bucket.Years)
		}
		if bucket.Years.Min > bucket.Years.Max {
			return fmt.Errorf("bucket %q has an empty range %s", bucket.Label, bucket.Years)
		}
	}

	if first := sorted[0]; first.Years.Min != math.MinInt {
		return fmt.Errorf("years below %d are not covered", first.Years.Min)
	}
	if last := sorted[len(sorted)-1]; last.Years.Max != math.MaxInt {
		return fmt.Errorf("years above %d are not covered", last.Years.Max)
	}

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Years.Max >= cur.Years.Min {
			return fmt.Errorf("buckets %q %s and %q %s overlap", prev.Label, prev.Years, cur.Label, cur.Years)
		}
		if prev.Years.Max+1 != cur.Years.Min {
			return fmt.Errorf("years %d to %d are not covered", prev.Years.Max+1, cur.Years.Min-1)
		}
	}

	return nil
}

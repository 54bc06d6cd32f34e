// Package display renders overviews and reports as styled terminal text.
package display

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bikeshare-platform/internal/enrich"
	"bikeshare-platform/internal/models"
)

// BarWidth is the width of the longest bar in a chart
const BarWidth = 30

var titleCaser = cases.Title(language.English)

// Title formats a city, month or day label for display ("new york city"
// becomes "New York City")
func Title(s string) string {
	return titleCaser.String(s)
}

// Round rounds v to the given number of decimals
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Days converts seconds to days, rounded to two decimals
func Days(seconds float64) float64 { return Round(seconds/86400, 2) }

// Hours converts seconds to hours, rounded to two decimals
func Hours(seconds float64) float64 { return Round(seconds/3600, 2) }

// Minutes converts seconds to minutes, rounded to two decimals
func Minutes(seconds float64) float64 { return Round(seconds/60, 2) }

// Bar is one row of a horizontal text chart
type Bar struct {
	Label string
	Value float64
}

// BarChart draws bars scaled to the largest value. Values are printed
// with format.
func BarChart(bars []Bar, format string) string {
	if len(bars) == 0 {
		return labelStyle.Render("  (no data)")
	}

	labelWidth, max := 0, 0.0
	for _, b := range bars {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
		if b.Value > max {
			max = b.Value
		}
	}

	var sb strings.Builder
	for i, b := range bars {
		n := 0
		if max > 0 {
			n = int(math.Round(b.Value / max * BarWidth))
		}
		if n == 0 && b.Value > 0 {
			n = 1
		}

		label := b.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(b.Label))
		sb.WriteString("  ")
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(" ")
		sb.WriteString(barStyle.Render(strings.Repeat("█", n)))
		sb.WriteString(" ")
		sb.WriteString(valueStyle.Render(fmt.Sprintf(format, b.Value)))
		if i < len(bars)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(sectionStyle.Render("### " + title))
	sb.WriteString("\n")
}

func bullet(sb *strings.Builder, label string, value interface{}) {
	sb.WriteString("  * ")
	sb.WriteString(labelStyle.Render(label + ": "))
	sb.WriteString(valueStyle.Render(fmt.Sprint(value)))
	sb.WriteString("\n")
}

// RenderLoad summarises a dataset load, including skipped rows
func RenderLoad(load *models.LoadReport) string {
	if load == nil {
		return ""
	}

	line := successStyle.Render(fmt.Sprintf("Loaded %d trips for %s from %s", load.LoadedRows, Title(load.City), load.Source))
	if load.SkippedRows == 0 {
		return line
	}

	return line + "\n" + warningStyle.Render(fmt.Sprintf("Skipped %d malformed rows", load.SkippedRows))
}

// RenderOverview renders the unfiltered statistics of a city
func RenderOverview(o *models.Overview) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Bikeshare dataset: %s (%d trips)", Title(o.City), o.Rows)))
	sb.WriteString("\n")

	if len(o.MissingValues) > 0 {
		section(&sb, "Missing values per column")
		columns := make([]string, 0, len(o.MissingValues))
		for column := range o.MissingValues {
			columns = append(columns, column)
		}
		sort.Slice(columns, func(i, j int) bool {
			if o.MissingValues[columns[i]] != o.MissingValues[columns[j]] {
				return o.MissingValues[columns[i]] > o.MissingValues[columns[j]]
			}
			return columns[i] < columns[j]
		})
		for _, column := range columns {
			bullet(&sb, column, o.MissingValues[column])
		}
	}

	section(&sb, "Total monthly trip duration (days)")
	bars := make([]Bar, len(o.MonthlyDuration))
	for i, m := range o.MonthlyDuration {
		bars[i] = Bar{Label: Title(enrich.MonthName(m.Month)), Value: Days(m.TotalSeconds)}
	}
	sb.WriteString(BarChart(bars, "%.2f"))
	sb.WriteString("\n")

	if o.HasGeneration {
		section(&sb, "Total trip duration per generation (days)")
		bars = bars[:0]
		for _, c := range o.TripCountByGeneration {
			bars = append(bars, Bar{Label: c.Value, Value: Days(o.DurationByGeneration[c.Value])})
		}
		sb.WriteString(BarChart(bars, "%.2f"))
		sb.WriteString("\n")

		section(&sb, "Number of trips per generation")
		sb.WriteString(BarChart(countBars(o.TripCountByGeneration), "%.0f"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderReport renders the filtered statistics of a city
func RenderReport(r *models.Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d trips for %s", Title(r.City), r.Rows, FilterLabel(r.Filter))))
	sb.WriteString("\n")

	section(&sb, "Most frequent times of travel")
	bullet(&sb, "The most common month is", Title(enrich.MonthName(r.PopularTimes.Month)))
	bullet(&sb, "The most common day of week is", Title(enrich.DayName(r.PopularTimes.DayOfWeek)))
	bullet(&sb, "The most common start hour is", r.PopularTimes.StartHour)

	section(&sb, "Trip duration")
	bullet(&sb, "The total travel time is", fmt.Sprintf("%s hours", formatFloat(Hours(r.Duration.TotalSeconds))))
	bullet(&sb, "The average (mean) travel time is", fmt.Sprintf("%s minutes", formatFloat(Minutes(r.Duration.MeanSeconds))))

	section(&sb, "Most commonly used start stations")
	sb.WriteString(BarChart(countBars(r.TopStartStations), "%.0f"))
	sb.WriteString("\n")

	section(&sb, "Most commonly used end stations")
	sb.WriteString(BarChart(countBars(r.TopEndStations), "%.0f"))
	sb.WriteString("\n")

	section(&sb, "Most common combination of start and end stations")
	pairs := make([]Bar, len(r.TopStationPairs))
	for i, p := range r.TopStationPairs {
		pairs[i] = Bar{Label: p.Value.Start + " -> " + p.Value.End, Value: float64(p.Count)}
	}
	sb.WriteString(BarChart(pairs, "%.0f"))
	sb.WriteString("\n")

	section(&sb, "Count of users per user type")
	sb.WriteString(BarChart(mapBars(r.UserTypes), "%.0f"))
	sb.WriteString("\n")

	if r.Genders != nil {
		section(&sb, "Count of users per gender")
		sb.WriteString(BarChart(mapBars(r.Genders), "%.0f"))
		sb.WriteString("\n")
	}

	if r.BirthYears != nil {
		section(&sb, "User stats by birth")
		bullet(&sb, "The earliest year of birth is", r.BirthYears.Earliest)
		bullet(&sb, "The most recent year of birth is", r.BirthYears.Latest)
		bullet(&sb, "The most common year of birth is", r.BirthYears.MostCommon)
	}

	return sb.String()
}

// RenderTrips renders raw enriched rows as an aligned table
func RenderTrips(city string, trips []models.Trip) string {
	header := []string{"Start Time", "Duration (s)", "Start Station", "End Station", "User Type", "Gender", "Birth Year", "Month", "Day", "Hour", "Generation"}
	rows := make([][]string, 0, len(trips)+1)
	rows = append(rows, header)

	for _, t := range trips {
		gender, birthYear := "", ""
		if t.Gender != nil {
			gender = *t.Gender
		}
		if t.BirthYear != nil {
			birthYear = strconv.Itoa(*t.BirthYear)
		}
		rows = append(rows, []string{
			t.StartTime.Format("2006-01-02 15:04:05"),
			formatFloat(t.DurationSeconds),
			t.StartStation,
			t.EndStation,
			t.UserType,
			gender,
			birthYear,
			strconv.Itoa(t.Month),
			strconv.Itoa(t.DayOfWeek),
			strconv.Itoa(t.StartHour),
			t.Generation,
		})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Raw data for %s bike trips", Title(city))))
	sb.WriteString("\n")
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if r == 0 {
			line = labelStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderError turns a load or query error into a user-facing message
func RenderError(err error) string {
	return errorStyle.Render(Message(err))
}

// Message returns the user-facing text for an error kind
func Message(err error) string {
	var unknown *models.UnknownCityError
	var unavailable *models.DatasetUnavailableError

	switch {
	case errors.As(err, &unknown):
		return fmt.Sprintf("Unknown city %q.", unknown.City)
	case errors.As(err, &unavailable):
		return fmt.Sprintf("The data file for %s is not available.", Title(unavailable.City))
	case errors.Is(err, models.ErrMalformedRecord):
		return "The data file contains malformed records: " + err.Error()
	case errors.Is(err, models.ErrEmptyInput):
		return "No trips match the selected months and days."
	default:
		return err.Error()
	}
}

// FilterLabel describes a month/day filter ("all months, Monday")
func FilterLabel(f models.Filter) string {
	months := "all months"
	if len(f.Months) > 0 && len(f.Months) < 12 {
		names := make([]string, len(f.Months))
		for i, m := range f.Months {
			names[i] = Title(enrich.MonthName(m))
		}
		months = strings.Join(names, ", ")
	}

	days := "all days"
	if len(f.Days) > 0 && len(f.Days) < 7 {
		names := make([]string, len(f.Days))
		for i, d := range f.Days {
			names[i] = Title(enrich.DayName(d))
		}
		days = strings.Join(names, ", ")
	}

	return months + "; " + days
}

func countBars(counts []models.Counted[string]) []Bar {
	bars := make([]Bar, len(counts))
	for i, c := range counts {
		bars[i] = Bar{Label: c.Value, Value: float64(c.Count)}
	}
	return bars
}

// mapBars orders category counts by descending count, then label
func mapBars(counts map[string]int) []Bar {
	bars := make([]Bar, 0, len(counts))
	for label, n := range counts {
		bars = append(bars, Bar{Label: label, Value: float64(n)})
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
	return bars
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

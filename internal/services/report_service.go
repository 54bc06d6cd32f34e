package services

import (
	"context"
	"errors"
	"fmt"

	"bikeshare-platform/internal/models"
	"bikeshare-platform/internal/query"
	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

// MinRawRows is the smallest number of raw rows shown by the surfaces
const MinRawRows = 5

// ReportService runs the trip queries and assembles report models
type ReportService struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewReportService creates a new report service
func NewReportService(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ReportService {
	return &ReportService{
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Overview computes the unfiltered statistics of a table
func (s *ReportService) Overview(ctx context.Context, table *models.Table) *models.Overview {
	timer := s.metrics.QueryTimer("overview")
	defer timer.ObserveDuration()

	overview := &models.Overview{
		City:            table.City,
		Rows:            table.Len(),
		MissingValues:   query.MissingValues(table),
		MonthlyDuration: query.MonthlyTripDuration(table),
	}

	if table.HasBirthYear {
		overview.DurationByGeneration = query.DurationByGeneration(table)
		overview.TripCountByGeneration = query.TripCountByGeneration(table)
		overview.HasGeneration = len(overview.TripCountByGeneration) > 0
	}

	s.logger.Debug(ctx, "[REPORT_OVERVIEW] Overview computed", logging.Fields{
		"city": table.City,
		"rows": overview.Rows,
	})

	return overview
}

// Build filters the table and computes the report. Queries that need at
// least one row fail with an EmptyInputError when the filter selects none.
func (s *ReportService) Build(ctx context.Context, table *models.Table, filter models.Filter) (*models.Report, error) {
	timer := s.metrics.QueryTimer("report")
	defer timer.ObserveDuration()

	filtered := query.Apply(table, filter)

	report := &models.Report{
		City:   table.City,
		Filter: filter,
		Rows:   filtered.Len(),
	}

	var err error
	if report.PopularTimes, err = popularTimes(filtered); err != nil {
		return nil, s.emptyInput(ctx, table.City, filter, err)
	}

	total, mean, err := query.TotalAndMeanDuration(filtered)
	if err != nil {
		return nil, s.emptyInput(ctx, table.City, filter, err)
	}
	report.Duration = models.DurationStats{TotalSeconds: total, MeanSeconds: mean}

	report.TopStartStations = query.TopKByCount(filtered, query.StartStation, query.DefaultTopK)
	report.TopEndStations = query.TopKByCount(filtered, query.EndStation, query.DefaultTopK)
	report.TopStationPairs = query.TopStationPairs(filtered, query.DefaultTopK)
	report.UserTypes = query.CountsByCategory(filtered, query.UserType)

	if filtered.HasGender {
		report.Genders = query.CountsByCategory(filtered, query.Gender)
	}

	if filtered.HasBirthYear {
		stats, err := query.BirthYearStats(filtered)
		switch {
		case err == nil:
			report.BirthYears = &stats
		case !errors.Is(err, models.ErrEmptyInput):
			return nil, err
		}
	}

	s.logger.Debug(ctx, "[REPORT_BUILD] Report computed", logging.Fields{
		"city":   table.City,
		"months": filter.Months,
		"days":   filter.Days,
		"rows":   report.Rows,
	})

	return report, nil
}

// RawTrips returns the first n enriched rows; n is raised to MinRawRows
func (s *ReportService) RawTrips(table *models.Table, n int) []models.Trip {
	if n < MinRawRows {
		n = MinRawRows
	}
	return table.Head(n)
}

func (s *ReportService) emptyInput(ctx context.Context, city string, filter models.Filter, err error) error {
	s.logger.Info(ctx, "[REPORT_EMPTY] Filter selected no trips", logging.Fields{
		"city":   city,
		"months": filter.Months,
		"days":   filter.Days,
	})
	return fmt.Errorf("no trips for %s with the selected filters: %w", city, err)
}

func popularTimes(table *models.Table) (models.PopularTimes, error) {
	month, err := query.MostCommon(table, query.Month)
	if err != nil {
		return models.PopularTimes{}, err
	}
	day, err := query.MostCommon(table, query.DayOfWeek)
	if err != nil {
		return models.PopularTimes{}, err
	}
	hour, err := query.MostCommon(table, query.StartHour)
	if err != nil {
		return models.PopularTimes{}, err
	}

	return models.PopularTimes{Month: month, DayOfWeek: day, StartHour: hour}, nil
}

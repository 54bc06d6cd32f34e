package services

import (
	"context"
	"fmt"
	"time"

	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/repository"
	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

// ImportService copies city datasets from a source repository (the CSV
// files) into the database trips table
type ImportService struct {
	catalog *catalog.Catalog
	source  repository.TripRepository
	writer  repository.TripWriter
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// ImportResult contains import statistics
type ImportResult struct {
	TotalCities    int
	ImportedCities int
	TotalRows      int
	ImportedRows   int
	SkippedRows    int
	Duration       time.Duration
	Errors         []string
}

// NewImportService creates a new import service
func NewImportService(
	cat *catalog.Catalog,
	source repository.TripRepository,
	writer repository.TripWriter,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *ImportService {
	return &ImportService{
		catalog: cat,
		source:  source,
		writer:  writer,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ImportCities imports the named cities, or every catalog city when ids is
// empty. Unknown ids fail before anything is written; a city that fails to
// load or write is recorded in the result and the run continues.
func (s *ImportService) ImportCities(ctx context.Context, ids []string) (*ImportResult, error) {
	startTime := time.Now()

	cities := s.catalog.Cities()
	if len(ids) > 0 {
		cities = make([]catalog.City, 0, len(ids))
		for _, id := range ids {
			city, err := s.catalog.Resolve(id)
			if err != nil {
				return nil, err
			}
			cities = append(cities, city)
		}
	}

	s.logger.Info(ctx, "[IMPORT_START] Starting trip import", logging.Fields{
		"source": s.source.Source(),
		"cities": len(cities),
	})

	result := &ImportResult{
		TotalCities: len(cities),
		Errors:      make([]string, 0),
	}

	for _, city := range cities {
		cityCtx := logging.WithCity(ctx, city.ID)

		table, load, err := s.source.LoadTrips(cityCtx, city)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to load %s: %v", city.ID, err))
			s.metrics.RecordImportError("load_error")
			s.logger.Error(cityCtx, "[IMPORT_CITY_ERROR] City load failed", logging.Fields{
				"stage": "LOAD",
			}, err)
			continue
		}

		result.TotalRows += load.TotalRows
		result.SkippedRows += load.SkippedRows

		written, err := s.writer.ReplaceCity(cityCtx, city.ID, table.Trips)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to write %s: %v", city.ID, err))
			s.metrics.RecordImportError("write_error")
			s.logger.Error(cityCtx, "[IMPORT_CITY_ERROR] City write failed", logging.Fields{
				"stage": "WRITE",
			}, err)
			continue
		}

		result.ImportedCities++
		result.ImportedRows += written

		s.logger.Info(cityCtx, "[IMPORT_CITY_SUCCESS] City imported", logging.Fields{
			"total_rows":    load.TotalRows,
			"imported_rows": written,
			"skipped_rows":  load.SkippedRows,
		})
	}

	result.Duration = time.Since(startTime)
	s.metrics.ImportDuration.Observe(result.Duration.Seconds())

	s.logger.Info(ctx, "[IMPORT_COMPLETE] Trip import completed", logging.Fields{
		"total_cities":     result.TotalCities,
		"imported_cities":  result.ImportedCities,
		"total_rows":       result.TotalRows,
		"imported_rows":    result.ImportedRows,
		"skipped_rows":     result.SkippedRows,
		"duration_seconds": result.Duration.Seconds(),
		"error_count":      len(result.Errors),
	})

	return result, nil
}

package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/models"
	"bikeshare-platform/pkg/logging"
)

// SourceCSV names the CSV file source
const SourceCSV = "csv"

// csvRepository reads city datasets from CSV files under a data directory
type csvRepository struct {
	dataDir string
	strict  bool
	logger  *logging.StructuredLogger
}

// NewCSVRepository creates a repository reading <dataDir>/<city file>
func NewCSVRepository(dataDir string, strict bool, logger *logging.StructuredLogger) TripRepository {
	return &csvRepository{
		dataDir: dataDir,
		strict:  strict,
		logger:  logger,
	}
}

func (r *csvRepository) Source() string {
	return SourceCSV
}

// LoadTrips parses the city's CSV file into a trip table
func (r *csvRepository) LoadTrips(ctx context.Context, city catalog.City) (*models.Table, *models.LoadReport, error) {
	path := filepath.Join(r.dataDir, city.File)
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &models.DatasetUnavailableError{City: city.ID, Location: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, &models.DatasetUnavailableError{
			City:     city.ID,
			Location: path,
			Err:      fmt.Errorf("failed to read csv header: %w", err),
		}
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	for _, name := range models.RequiredColumns {
		if !present[name] {
			return nil, nil, &models.MalformedRecordError{
				Column: name,
				Err:    fmt.Errorf("required column missing from %s", path),
			}
		}
	}
	hasGender := present[models.ColumnGender]
	hasBirthYear := present[models.ColumnBirthYear]

	collector := newRowCollector(city.ID, SourceCSV, r.strict, 0)
	add := func(trip models.Trip, err error) error {
		if err := collector.add(trip, err); err != nil {
			r.logger.Error(ctx, "[CSV_LOAD_ERROR] Strict parse rejected dataset", logging.Fields{
				"city": city.ID,
				"path": path,
			}, err)
			return err
		}
		return nil
	}

	// Rows with the wrong field count never reach the dataframe. lines maps
	// each kept record back to its line in the file and rejected holds the
	// others in file order.
	records := [][]string{header}
	lines := make([]int, 0)
	rejected := make([]*models.MalformedRecordError, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		var parseErr *csv.ParseError
		switch {
		case errors.As(err, &parseErr):
			rejected = append(rejected, &models.MalformedRecordError{Line: parseErr.StartLine, Err: parseErr.Err})
			continue
		case err != nil:
			return nil, nil, &models.DatasetUnavailableError{City: city.ID, Location: path, Err: err}
		}

		line, _ := reader.FieldPos(0)
		if len(record) != len(header) {
			rejected = append(rejected, &models.MalformedRecordError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, found %d", len(header), len(record)),
			})
			continue
		}

		records = append(records, record)
		lines = append(lines, line)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	columns := make(map[string][]string, len(header))
	if len(lines) > 0 {
		df := dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
		)
		if df.Err != nil {
			return nil, nil, &models.DatasetUnavailableError{
				City:     city.ID,
				Location: path,
				Err:      fmt.Errorf("failed to parse csv: %w", df.Err),
			}
		}

		for _, name := range df.Names() {
			switch name {
			case models.ColumnStartTime, models.ColumnTripDuration, models.ColumnStartStation,
				models.ColumnEndStation, models.ColumnUserType, models.ColumnGender, models.ColumnBirthYear:
				columns[name] = df.Col(name).Records()
			}
		}
	}

	flush := func(before int) error {
		for len(rejected) > 0 && rejected[0].Line < before {
			if err := add(models.Trip{}, rejected[0]); err != nil {
				return err
			}
			rejected = rejected[1:]
		}
		return nil
	}

	for i, line := range lines {
		if err := flush(line); err != nil {
			return nil, nil, err
		}

		raw := models.RawTripRecord{
			Line:         line,
			StartTime:    columns[models.ColumnStartTime][i],
			TripDuration: columns[models.ColumnTripDuration][i],
			StartStation: columns[models.ColumnStartStation][i],
			EndStation:   columns[models.ColumnEndStation][i],
			UserType:     columns[models.ColumnUserType][i],
		}
		if hasGender {
			raw.Gender = &columns[models.ColumnGender][i]
		}
		if hasBirthYear {
			raw.BirthYear = &columns[models.ColumnBirthYear][i]
		}

		if err := add(raw.ToTrip()); err != nil {
			return nil, nil, err
		}
	}
	if err := flush(math.MaxInt); err != nil {
		return nil, nil, err
	}

	report := collector.report
	if report.SkippedRows > 0 {
		r.logger.Warn(ctx, "[CSV_LOAD] Skipped malformed rows", logging.Fields{
			"city":         city.ID,
			"path":         path,
			"skipped_rows": report.SkippedRows,
			"first_error":  report.Errors[0],
		})
	}

	r.logger.Debug(ctx, "[CSV_LOAD] Dataset parsed", logging.Fields{
		"city":        city.ID,
		"path":        path,
		"rows":        report.LoadedRows,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return collector.table(city.ID, hasGender, hasBirthYear), report, nil
}

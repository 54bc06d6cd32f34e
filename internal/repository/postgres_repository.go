package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/models"
	"bikeshare-platform/pkg/logging"
)

// SourcePostgres names the PostgreSQL source
const SourcePostgres = "postgres"

// rowSelector is the subset of database.PostgresDB used by the repository
type rowSelector interface {
	SelectContext(ctx context.Context, queryType string, dest interface{}, query string, args ...interface{}) error
}

// tripRow is one row of the trips table
type tripRow struct {
	StartTime    time.Time       `db:"start_time"`
	TripDuration float64         `db:"trip_duration"`
	StartStation string          `db:"start_station"`
	EndStation   string          `db:"end_station"`
	UserType     string          `db:"user_type"`
	Gender       sql.NullString  `db:"gender"`
	BirthYear    sql.NullFloat64 `db:"birth_year"`
}

// postgresRepository reads trips from a PostgreSQL table, read-only
type postgresRepository struct {
	db     rowSelector
	table  string
	strict bool
	logger *logging.StructuredLogger
}

// NewPostgresRepository creates a repository reading from table.
// The table name must already be validated as an identifier.
func NewPostgresRepository(db rowSelector, table string, strict bool, logger *logging.StructuredLogger) TripRepository {
	return &postgresRepository{
		db:     db,
		table:  table,
		strict: strict,
		logger: logger,
	}
}

func (r *postgresRepository) Source() string {
	return SourcePostgres
}

// LoadTrips selects every trip of the city in id order
func (r *postgresRepository) LoadTrips(ctx context.Context, city catalog.City) (*models.Table, *models.LoadReport, error) {
	query := fmt.Sprintf(`
		SELECT start_time, trip_duration, start_station, end_station,
		       user_type, gender, birth_year
		FROM %s
		WHERE city = $1
		ORDER BY id
	`, r.table)

	var rows []tripRow
	if err := r.db.SelectContext(ctx, "select_city_trips", &rows, query, city.ID); err != nil {
		return nil, nil, &models.DatasetUnavailableError{
			City:     city.ID,
			Location: r.table,
			Err:      fmt.Errorf("failed to select trips: %w", err),
		}
	}

	if len(rows) == 0 {
		return nil, nil, &models.DatasetUnavailableError{
			City:     city.ID,
			Location: r.table,
			Err:      fmt.Errorf("no trips stored for city"),
		}
	}

	collector := newRowCollector(city.ID, SourcePostgres, r.strict, len(rows))
	hasGender, hasBirthYear := false, false

	for i, row := range rows {
		if row.Gender.Valid {
			hasGender = true
		}
		if row.BirthYear.Valid {
			hasBirthYear = true
		}

		if err := collector.add(row.toTrip(i + 1)); err != nil {
			r.logger.Error(ctx, "[PG_LOAD_ERROR] Strict parse rejected dataset", logging.Fields{
				"city":  city.ID,
				"table": r.table,
			}, err)
			return nil, nil, err
		}
	}

	report := collector.report
	if report.SkippedRows > 0 {
		r.logger.Warn(ctx, "[PG_LOAD] Skipped malformed rows", logging.Fields{
			"city":         city.ID,
			"table":        r.table,
			"skipped_rows": report.SkippedRows,
			"first_error":  report.Errors[0],
		})
	}

	return collector.table(city.ID, hasGender, hasBirthYear), report, nil
}

// toTrip converts the row through the same path as CSV records so both
// sources share one validation policy
func (row tripRow) toTrip(line int) (models.Trip, error) {
	raw := models.RawTripRecord{
		Line:         line,
		StartTime:    row.StartTime.Format(time.RFC3339Nano),
		TripDuration: strconv.FormatFloat(row.TripDuration, 'f', -1, 64),
		StartStation: row.StartStation,
		EndStation:   row.EndStation,
		UserType:     row.UserType,
	}
	if row.Gender.Valid {
		raw.Gender = &row.Gender.String
	}
	if row.BirthYear.Valid {
		year := strconv.FormatFloat(row.BirthYear.Float64, 'f', -1, 64)
		raw.BirthYear = &year
	}
	return raw.ToTrip()
}

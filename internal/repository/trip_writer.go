package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bikeshare-platform/internal/models"
	"bikeshare-platform/pkg/database"
	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

// tripColumns are the columns written for every trip, in bind order
var tripColumns = []string{
	"city", "start_time", "trip_duration", "start_station",
	"end_station", "user_type", "gender", "birth_year",
}

// MaxBatchSize keeps a batch within PostgreSQL's bind parameter limit
var MaxBatchSize = 65535 / len(tripColumns)

// TripWriter stores the trips of a city in the database
type TripWriter interface {
	// ReplaceCity deletes the stored trips of city and inserts trips in
	// their current order, all in one transaction. It returns the number
	// of rows written.
	ReplaceCity(ctx context.Context, city string, trips []models.Trip) (int, error)
}

// tripTx is the part of *sqlx.Tx used by the writer
type tripTx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Commit() error
	Rollback() error
}

type postgresTripWriter struct {
	begin     func(ctx context.Context) (tripTx, error)
	table     string
	batchSize int
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector
}

// NewPostgresTripWriter creates a writer for table. The table name must
// already be validated as an identifier.
func NewPostgresTripWriter(db *database.PostgresDB, table string, batchSize int, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) TripWriter {
	begin := func(ctx context.Context) (tripTx, error) {
		tx, err := db.BeginTx(ctx)
		if err != nil {
			return nil, err
		}
		return tx, nil
	}
	return newTripWriter(begin, table, batchSize, logger, metricsCollector)
}

func newTripWriter(begin func(ctx context.Context) (tripTx, error), table string, batchSize int, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *postgresTripWriter {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	return &postgresTripWriter{
		begin:     begin,
		table:     table,
		batchSize: batchSize,
		logger:    logger,
		metrics:   metricsCollector,
	}
}

func (w *postgresTripWriter) ReplaceCity(ctx context.Context, city string, trips []models.Trip) (int, error) {
	start := time.Now()

	tx, err := w.begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE city = $1", w.table), city)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trips of %s: %w", city, err)
	}
	deleted, _ := result.RowsAffected()

	written := 0
	for len(trips) > 0 {
		n := min(w.batchSize, len(trips))
		batch := trips[:n]
		trips = trips[n:]

		query, args := w.insertBatch(city, batch)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert trips of %s: %w", city, err)
		}
		written += n
		w.metrics.ImportBatchSize.Observe(float64(n))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.metrics.ImportRecordsTotal.WithLabelValues(city).Add(float64(written))
	w.logger.Debug(ctx, "[REPO_BATCH_INSERT] City trips replaced", logging.Fields{
		"city":        city,
		"deleted":     deleted,
		"inserted":    written,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return written, nil
}

// insertBatch builds one multi-row INSERT for batch
func (w *postgresTripWriter) insertBatch(city string, batch []models.Trip) (string, []interface{}) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", w.table, strings.Join(tripColumns, ", "))

	args := make([]interface{}, 0, len(batch)*len(tripColumns))
	for i, trip := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range tripColumns {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", len(args)+j+1)
		}
		sb.WriteByte(')')

		args = append(args,
			city,
			trip.StartTime,
			trip.DurationSeconds,
			trip.StartStation,
			trip.EndStation,
			trip.UserType,
			trip.Gender,
			trip.BirthYear,
		)
	}

	return sb.String(), args
}

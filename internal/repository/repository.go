package repository

import (
	"context"
	"errors"

	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/models"
)

// maxReportedErrors caps the parse errors kept on a LoadReport
const maxReportedErrors = 20

// TripRepository provides read access to the trip dataset of a city
type TripRepository interface {
	// LoadTrips reads every trip of the city in dataset order
	LoadTrips(ctx context.Context, city catalog.City) (*models.Table, *models.LoadReport, error)

	// Source names the backing store ("csv", "postgres")
	Source() string
}

// rowCollector applies the malformed-row policy while a table is built
type rowCollector struct {
	strict bool
	trips  []models.Trip
	report *models.LoadReport
}

func newRowCollector(city, source string, strict bool, capacity int) *rowCollector {
	return &rowCollector{
		strict: strict,
		trips:  make([]models.Trip, 0, capacity),
		report: &models.LoadReport{City: city, Source: source},
	}
}

// add records one converted row. In strict mode the first conversion
// error is returned; otherwise the row is skipped and counted.
func (c *rowCollector) add(trip models.Trip, err error) error {
	c.report.TotalRows++

	if err != nil {
		var malformed *models.MalformedRecordError
		if !errors.As(err, &malformed) {
			return err
		}
		if c.strict {
			return err
		}
		c.report.SkippedRows++
		if len(c.report.Errors) < maxReportedErrors {
			c.report.Errors = append(c.report.Errors, err.Error())
		}
		return nil
	}

	c.trips = append(c.trips, trip)
	c.report.LoadedRows++
	return nil
}

func (c *rowCollector) table(city string, hasGender, hasBirthYear bool) *models.Table {
	return &models.Table{
		City:         city,
		Trips:        c.trips,
		HasGender:    hasGender,
		HasBirthYear: hasBirthYear,
	}
}

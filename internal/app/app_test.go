package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-platform/internal/config"
	"bikeshare-platform/internal/models"
	"bikeshare-platform/pkg/logging"
)

const tripsCSV = `Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1962.0
`

func testConfig(dir string) *config.Config {
	return &config.Config{
		Data:    config.DataConfig{Dir: dir, Source: config.SourceCSV},
		Server:  config.ServerConfig{Port: 8080},
		Logging: config.LoggingConfig{Level: "info"},
	}
}

func TestNew_CSVSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(tripsCSV), 0o644))

	var logs bytes.Buffer
	a, err := New(context.Background(), testConfig(dir), Options{
		Service:    "bikeshare-test",
		LogOutput:  &logs,
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "csv", a.Datasets.Source())
	assert.Len(t, a.Datasets.Cities(), 3)
	assert.NoError(t, a.HealthCheck(context.Background()))

	dataset, err := a.Datasets.Load(context.Background(), "Chicago")
	require.NoError(t, err)
	assert.Equal(t, 2, dataset.Table.Len())

	report, err := a.Reports.Build(context.Background(), dataset.Table, models.Filter{Months: []int{6}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Rows)

	assert.Contains(t, logs.String(), "[DATASET_LOAD_COMPLETE]")
	assert.Contains(t, logs.String(), `"service":"bikeshare-test"`)
}

func TestNew_CatalogFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "boston.csv"), []byte(tripsCSV), 0o644))

	catalogPath := filepath.Join(dir, "cities.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("cities:\n  - id: boston\n    file: boston.csv\n"), 0o644))

	cfg := testConfig(dir)
	cfg.Data.CatalogFile = catalogPath

	quiet := logging.FatalLevel + 1
	a, err := New(context.Background(), cfg, Options{LogLevel: &quiet, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)

	assert.Equal(t, []string{"boston"}, a.Catalog.IDs())

	_, err = a.Datasets.Load(context.Background(), "boston")
	require.NoError(t, err)

	_, err = a.Datasets.Load(context.Background(), "chicago")
	assert.ErrorIs(t, err, models.ErrUnknownCity)
}

func TestNew_Errors(t *testing.T) {
	quiet := logging.FatalLevel + 1
	opts := Options{LogLevel: &quiet, Registerer: prometheus.NewRegistry()}

	cfg := testConfig(t.TempDir())
	cfg.Data.CatalogFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(context.Background(), cfg, opts)
	assert.ErrorContains(t, err, "failed to load city catalog")

	cfg = testConfig(t.TempDir())
	cfg.Data.Source = "s3"
	_, err = New(context.Background(), cfg, Options{LogLevel: &quiet, Registerer: prometheus.NewRegistry()})
	assert.ErrorContains(t, err, `unknown data source "s3"`)
}

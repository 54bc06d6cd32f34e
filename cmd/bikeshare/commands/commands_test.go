package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-platform/internal/display"
	"bikeshare-platform/internal/models"
)

const chicagoCSV = `Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1962.0
`

func dataDir(t *testing.T) string {
	t.Helper()
	t.Setenv("BIKESHARE_SOURCE", "csv")
	t.Setenv("BIKESHARE_CATALOG_FILE", "")
	t.Setenv("LOG_LEVEL", "info")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(chicagoCSV), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCitiesCommand(t *testing.T) {
	dir := dataDir(t)

	out, err := run(t, "cities", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Chicago")
	assert.Contains(t, out, filepath.Join(dir, "new_york_city.csv"))

	out, err = run(t, "cities", "--data-dir", dir, "--json")
	require.NoError(t, err)

	var body struct {
		Source string `json:"source"`
		Cities []struct {
			ID string `json:"id"`
		} `json:"cities"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "csv", body.Source)
	assert.Len(t, body.Cities, 3)
}

func TestReportCommand(t *testing.T) {
	dir := dataDir(t)

	out, err := run(t, "report", "chicago", "--data-dir", dir, "--month", "june")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 2 trips for Chicago")
	assert.Contains(t, out, "Chicago: 1 trips for June; all days")
	assert.Contains(t, out, "Wood St & Hubbard St")
	assert.NotContains(t, out, "Raw data for")

	out, err = run(t, "report", "Chicago", "--data-dir", dir, "--raw", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Raw data for Chicago bike trips")
}

func TestReportCommand_JSON(t *testing.T) {
	dir := dataDir(t)

	out, err := run(t, "report", "chicago", "--data-dir", dir, "--json", "--day", "thu,fri", "--raw", "1")
	require.NoError(t, err)

	var result reportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Load.LoadedRows)
	assert.Equal(t, 2, result.Overview.Rows)
	assert.Equal(t, 2, result.Report.Rows)
	assert.Equal(t, []int{4, 5}, result.Report.Filter.Days)
	assert.Len(t, result.Trips, 2)
}

func TestReportCommand_Errors(t *testing.T) {
	dir := dataDir(t)

	_, err := run(t, "report", "new", "york", "city", "--data-dir", dir)
	require.ErrorIs(t, err, models.ErrDatasetUnavailable)
	assert.Equal(t, "The data file for New York City is not available.", display.Message(err))

	_, err = run(t, "report", "paris", "--data-dir", dir)
	assert.ErrorIs(t, err, models.ErrUnknownCity)

	_, err = run(t, "report", "chicago", "--data-dir", dir, "--month", "december")
	assert.ErrorIs(t, err, models.ErrEmptyInput)

	_, err = run(t, "report", "chicago", "--data-dir", dir, "--month", "13")
	assert.ErrorContains(t, err, "invalid --month")

	_, err = run(t, "report", "chicago", "--source", "s3")
	assert.ErrorContains(t, err, "invalid configuration")

	_, err = run(t, "report")
	assert.Error(t, err)
}

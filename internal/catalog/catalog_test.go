package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-platform/internal/models"
)

func TestDefault_Resolve(t *testing.T) {
	c := Default()

	tests := []struct {
		id       string
		wantFile string
		wantErr  bool
	}{
		{"chicago", "chicago.csv", false},
		{"Chicago", "chicago.csv", false},
		{"  NEW YORK CITY ", "new_york_city.csv", false},
		{"new  york city", "new_york_city.csv", false},
		{"Washington", "washington.csv", false},
		{"paris", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		city, err := c.Resolve(tt.id)
		if tt.wantErr {
			require.Error(t, err, "Resolve(%q)", tt.id)
			assert.True(t, errors.Is(err, models.ErrUnknownCity))
			continue
		}
		require.NoError(t, err, "Resolve(%q)", tt.id)
		assert.Equal(t, tt.wantFile, city.File)
	}
}

func TestCatalog_IDs(t *testing.T) {
	assert.Equal(t, []string{"chicago", "new york city", "washington"}, Default().IDs())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]City{{ID: "", File: "x.csv"}})
	assert.Error(t, err)

	_, err = New([]City{{ID: "boston", File: " "}})
	assert.Error(t, err)

	_, err = New([]City{{ID: "boston", File: "a.csv"}, {ID: "BOSTON", File: "b.csv"}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.yaml")
	content := `cities:
  - id: Boston
    file: boston.csv
  - id: chicago
    file: chicago_2017.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	city, err := c.Resolve("boston")
	require.NoError(t, err)
	assert.Equal(t, City{ID: "boston", File: "boston.csv"}, city)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cities: [oops"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

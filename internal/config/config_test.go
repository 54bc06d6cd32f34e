package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BIKESHARE_DATA_DIR", "")
	t.Setenv("BIKESHARE_SOURCE", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, SourceCSV, cfg.Data.Source)
	assert.False(t, cfg.Data.StrictParse)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "bike_trips", cfg.Database.Table)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("BIKESHARE_DATA_DIR", "/srv/bikeshare")
	t.Setenv("BIKESHARE_SOURCE", "Postgres")
	t.Setenv("BIKESHARE_STRICT_PARSE", "true")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/srv/bikeshare", cfg.Data.Dir)
	assert.Equal(t, SourcePostgres, cfg.Data.Source)
	assert.True(t, cfg.Data.StrictParse)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("BIKESHARE_STRICT_PARSE", "maybe")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "BIKESHARE_STRICT_PARSE")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Data:     DataConfig{Dir: "data", Source: SourceCSV},
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Host: "localhost", Database: "bikeshare", Table: "bike_trips"},
			Logging:  LoggingConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid csv", func(c *Config) {}, false},
		{"valid postgres", func(c *Config) { c.Data.Source = SourcePostgres }, false},
		{"unknown source", func(c *Config) { c.Data.Source = "s3" }, true},
		{"empty data dir", func(c *Config) { c.Data.Dir = " " }, true},
		{"bad table name", func(c *Config) { c.Data.Source = SourcePostgres; c.Database.Table = "trips; DROP" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"warning log level", func(c *Config) { c.Logging.Level = "warning" }, false},
		{"mixed case log level", func(c *Config) { c.Logging.Level = " WARN " }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Source kinds for trip datasets
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Data     DataConfig
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// DataConfig describes where trip datasets come from
type DataConfig struct {
	Dir         string
	Source      string
	CatalogFile string
	StrictParse bool
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL settings for the postgres source
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	Table           string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
}

// LoadConfig reads .env (if present) and the environment
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var errs []string
	env := envReader{errs: &errs}

	cfg := &Config{
		Data: DataConfig{
			Dir:         env.String("BIKESHARE_DATA_DIR", "data"),
			Source:      strings.ToLower(env.String("BIKESHARE_SOURCE", SourceCSV)),
			CatalogFile: env.String("BIKESHARE_CATALOG_FILE", ""),
			StrictParse: env.Bool("BIKESHARE_STRICT_PARSE", false),
		},
		Server: ServerConfig{
			Host:         env.String("SERVER_HOST", "0.0.0.0"),
			Port:         env.Int("SERVER_PORT", 8080),
			ReadTimeout:  env.Duration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: env.Duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  env.Duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            env.String("DB_HOST", "localhost"),
			Port:            env.Int("DB_PORT", 5432),
			User:            env.String("DB_USER", "bikeshare"),
			Password:        env.String("DB_PASSWORD", ""),
			Database:        env.String("DB_NAME", "bikeshare"),
			SSLMode:         env.String("DB_SSLMODE", "disable"),
			Table:           env.String("DB_TRIPS_TABLE", "bike_trips"),
			MaxOpenConns:    env.Int("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    env.Int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: env.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: env.Duration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(env.String("LOG_LEVEL", "info")),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceCSV:
		if strings.TrimSpace(c.Data.Dir) == "" {
			return fmt.Errorf("data directory is required for the csv source")
		}
	case SourcePostgres:
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("database host and name are required for the postgres source")
		}
		if !validIdentifier(c.Database.Table) {
			return fmt.Errorf("invalid trips table name %q", c.Database.Table)
		}
	default:
		return fmt.Errorf("unknown data source %q (want %s or %s)", c.Data.Source, SourceCSV, SourcePostgres)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	// accepts what logging.ParseLevel accepts
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}

	return nil
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// envReader reads typed environment values and collects parse errors
type envReader struct {
	errs *[]string
}

func (e envReader) String(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e envReader) Int(key string, def int) int {
	v := e.String(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return n
}

func (e envReader) Bool(key string, def bool) bool {
	v := e.String(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return b
}

func (e envReader) Duration(key string, def time.Duration) time.Duration {
	v := e.String(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return d
}

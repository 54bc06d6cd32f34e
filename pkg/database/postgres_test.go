package database

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

func TestConfigDSN(t *testing.T) {
	cfg := &Config{
		Host:     "db.internal",
		Port:     6543,
		User:     "bikeshare",
		Password: "secret",
		Database: "trips",
		SSLMode:  "require",
	}

	assert.Equal(t, "host=db.internal port=6543 user=bikeshare password=secret dbname=trips sslmode=require", cfg.DSN())
}

func TestNewPostgresDB_Unreachable(t *testing.T) {
	cfg := &Config{
		Host:            "127.0.0.1",
		Port:            1,
		User:            "bikeshare",
		Database:        "trips",
		SSLMode:         "disable",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db, err := NewPostgresDB(ctx, cfg, logging.NewNopLogger(), metrics.NewCollector("bikeshare_test", prometheus.NewRegistry()))
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to ping database")
}

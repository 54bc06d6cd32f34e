package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/enrich"
	"bikeshare-platform/internal/models"
	"bikeshare-platform/internal/repository"
	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

// Dataset is an enriched city table together with its load summary
type Dataset struct {
	Table    *models.Table
	Load     *models.LoadReport
	LoadedAt time.Time
}

// DatasetService resolves cities, loads their trips once and keeps the
// enriched tables in memory until invalidated
type DatasetService struct {
	catalog     *catalog.Catalog
	repo        repository.TripRepository
	generations enrich.BucketTable
	logger      *logging.StructuredLogger
	metrics     *metrics.Collector

	mu    sync.RWMutex
	cache map[string]*Dataset
	group singleflight.Group

	// epochs count invalidations per city and epoch counts InvalidateAll
	// calls; a load only stores its result if neither moved meanwhile
	epochs map[string]uint64
	epoch  uint64
}

// NewDatasetService creates a new dataset service
func NewDatasetService(
	cat *catalog.Catalog,
	repo repository.TripRepository,
	generations enrich.BucketTable,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *DatasetService {
	return &DatasetService{
		catalog:     cat,
		repo:        repo,
		generations: generations,
		logger:      logger,
		metrics:     metricsCollector,
		cache:       make(map[string]*Dataset),
		epochs:      make(map[string]uint64),
	}
}

// Cities returns the catalog entries sorted by id
func (s *DatasetService) Cities() []catalog.City {
	return s.catalog.Cities()
}

// Source names the backing trip store
func (s *DatasetService) Source() string {
	return s.repo.Source()
}

// Load returns the enriched dataset of a city, reading the source only on
// the first request or after invalidation. Concurrent callers share one
// read; a caller whose ctx ends stops waiting without failing the others.
func (s *DatasetService) Load(ctx context.Context, cityID string) (*Dataset, error) {
	city, err := s.catalog.Resolve(cityID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached, ok := s.cache[city.ID]
	s.mu.RUnlock()
	if ok {
		s.metrics.RecordCacheHit()
		return cached, nil
	}

	s.metrics.RecordCacheMiss()

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(city.ID, func() (interface{}, error) {
		s.mu.RLock()
		cached, ok := s.cache[city.ID]
		cityEpoch, epoch := s.epochs[city.ID], s.epoch
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		dataset, err := s.load(loadCtx, city)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.epochs[city.ID] == cityEpoch && s.epoch == epoch {
			s.cache[city.ID] = dataset
		}
		s.mu.Unlock()
		return dataset, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}

func (s *DatasetService) load(ctx context.Context, city catalog.City) (*Dataset, error) {
	ctx = logging.WithCity(ctx, city.ID)
	source := s.repo.Source()
	timer := s.metrics.NewTimer(s.metrics.DatasetLoadDuration.WithLabelValues(city.ID, source))

	s.logger.Info(ctx, "[DATASET_LOAD_START] Loading trip dataset", logging.Fields{
		"city":   city.ID,
		"file":   city.File,
		"source": source,
	})

	table, report, err := s.repo.LoadTrips(ctx, city)
	duration := timer.ObserveDuration()
	if err != nil {
		s.metrics.RecordDatasetLoad(city.ID, source, loadResult(err), 0, 0)
		s.logger.Error(ctx, "[DATASET_LOAD_ERROR] Failed to load trip dataset", logging.Fields{
			"city":   city.ID,
			"source": source,
		}, err)
		return nil, err
	}

	enriched := enrich.Enrich(table, s.generations)
	s.metrics.RecordDatasetLoad(city.ID, source, "success", enriched.Len(), report.SkippedRows)

	s.logger.Info(ctx, "[DATASET_LOAD_COMPLETE] Trip dataset loaded", logging.Fields{
		"city":          city.ID,
		"source":        source,
		"rows":          report.LoadedRows,
		"skipped_rows":  report.SkippedRows,
		"has_gender":    enriched.HasGender,
		"has_birthyear": enriched.HasBirthYear,
		"duration_ms":   duration.Milliseconds(),
	})

	return &Dataset{
		Table:    enriched,
		Load:     report,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Invalidate drops the cached dataset of a city. A load already in flight
// still answers its callers but is not cached. It reports whether an entry
// was present.
func (s *DatasetService) Invalidate(cityID string) (bool, error) {
	city, err := s.catalog.Resolve(cityID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	_, ok := s.cache[city.ID]
	delete(s.cache, city.ID)
	s.epochs[city.ID]++
	s.mu.Unlock()
	s.group.Forget(city.ID)

	s.logger.Info(context.Background(), "[DATASET_INVALIDATE] Cached dataset dropped", logging.Fields{
		"city":    city.ID,
		"present": ok,
	})
	return ok, nil
}

// InvalidateAll drops every cached dataset
func (s *DatasetService) InvalidateAll() {
	s.mu.Lock()
	n := len(s.cache)
	s.cache = make(map[string]*Dataset)
	s.epoch++
	s.mu.Unlock()
	for _, city := range s.catalog.Cities() {
		s.group.Forget(city.ID)
	}

	s.logger.Info(context.Background(), "[DATASET_INVALIDATE] All cached datasets dropped", logging.Fields{
		"count": n,
	})
}

func loadResult(err error) string {
	switch {
	case errors.Is(err, models.ErrDatasetUnavailable):
		return "unavailable"
	case errors.Is(err, models.ErrMalformedRecord):
		return "malformed"
	default:
		return "error"
	}
}

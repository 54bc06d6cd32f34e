package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/enrich"
	"bikeshare-platform/internal/models"
	"bikeshare-platform/internal/services"
	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

// ReportHandler handles the bike-share report API endpoints
type ReportHandler struct {
	datasets *services.DatasetService
	reports  *services.ReportService
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector

	// dependencyCheck reports the health of the trip source, if set
	dependencyCheck func(ctx context.Context) error
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	datasets *services.DatasetService,
	reports *services.ReportService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *ReportHandler {
	return &ReportHandler{
		datasets: datasets,
		reports:  reports,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// SetHealthCheck installs a dependency check used by GET /health
func (h *ReportHandler) SetHealthCheck(check func(ctx context.Context) error) {
	h.dependencyCheck = check
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// CitiesResponse lists the catalog
type CitiesResponse struct {
	Source string         `json:"source"`
	Cities []catalog.City `json:"cities"`
}

// OverviewResponse is the unfiltered view of a city
type OverviewResponse struct {
	Load     *models.LoadReport `json:"load"`
	Overview *models.Overview   `json:"overview"`
	LoadedAt time.Time          `json:"loaded_at"`
}

// TripsResponse holds raw enriched rows
type TripsResponse struct {
	City  string        `json:"city"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
	Trips []models.Trip `json:"trips"`
}

// InvalidateResponse reports a cache invalidation
type InvalidateResponse struct {
	City        string `json:"city"`
	Invalidated bool   `json:"invalidated"`
}

// ListCities handles GET /api/cities
func (h *ReportHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, CitiesResponse{
		Source: h.datasets.Source(),
		Cities: h.datasets.Cities(),
	}, http.StatusOK)
}

// GetOverview handles GET /api/cities/{city}/overview
func (h *ReportHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dataset, err := h.datasets.Load(ctx, mux.Vars(r)["city"])
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, OverviewResponse{
		Load:     dataset.Load,
		Overview: h.reports.Overview(ctx, dataset.Table),
		LoadedAt: dataset.LoadedAt,
	}, http.StatusOK)
}

// GetReport handles GET /api/cities/{city}/report?month=..&day=..
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	months, err := enrich.ParseMonths(query["month"])
	if err != nil {
		h.sendError(w, r, "invalid month filter: "+err.Error(), http.StatusBadRequest)
		return
	}
	days, err := enrich.ParseDays(query["day"])
	if err != nil {
		h.sendError(w, r, "invalid day filter: "+err.Error(), http.StatusBadRequest)
		return
	}

	dataset, err := h.datasets.Load(ctx, mux.Vars(r)["city"])
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	report, err := h.reports.Build(ctx, dataset.Table, models.Filter{Months: months, Days: days})
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, report, http.StatusOK)
}

// GetTrips handles GET /api/cities/{city}/trips?limit=N
func (h *ReportHandler) GetTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := services.MinRawRows
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			h.sendError(w, r, "invalid limit, expected a positive integer", http.StatusBadRequest)
			return
		}
		limit = l
	}
	if limit < services.MinRawRows {
		limit = services.MinRawRows
	}

	dataset, err := h.datasets.Load(ctx, mux.Vars(r)["city"])
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	trips := h.reports.RawTrips(dataset.Table, limit)
	h.sendJSON(w, TripsResponse{
		City:  dataset.Table.City,
		Limit: limit,
		Total: dataset.Table.Len(),
		Trips: trips,
	}, http.StatusOK)
}

// InvalidateCache handles DELETE /api/cities/{city}/cache
func (h *ReportHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	city := mux.Vars(r)["city"]

	present, err := h.datasets.Invalidate(city)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, InvalidateResponse{City: city, Invalidated: present}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *ReportHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"source":    h.datasets.Source(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.dependencyCheck != nil {
		if err := h.dependencyCheck(ctx); err != nil {
			h.logger.Error(ctx, "[HEALTH_CHECK_FAILED] Trip source health check failed", logging.Fields{
				"source": h.datasets.Source(),
			}, err)
			status["status"] = "unhealthy"
			status["error"] = err.Error()
			h.sendJSON(w, status, http.StatusServiceUnavailable)
			return
		}
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// StatusFor maps an error kind to its HTTP status and metrics label
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrUnknownCity):
		return http.StatusNotFound, "unknown_city"
	case errors.Is(err, models.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable, "dataset_unavailable"
	case errors.Is(err, models.ErrMalformedRecord):
		return http.StatusUnprocessableEntity, "malformed_record"
	case errors.Is(err, models.ErrEmptyInput):
		return http.StatusUnprocessableEntity, "empty_input"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// sendServiceError maps a load or query error to a response
func (h *ReportHandler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, errorType := StatusFor(err)

	endpoint := routeTemplate(r)
	h.metrics.RecordAPIError(errorType, endpoint)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "[API_ERROR] Request failed", logging.Fields{
			"endpoint":   endpoint,
			"error_type": errorType,
		}, err)
	}

	h.sendError(w, r, err.Error(), status)
}

// sendJSON sends a JSON response
func (h *ReportHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *ReportHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Code:      statusCode,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all report API routes
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.Use(RequestID(h.logger), Instrument(h.metrics))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cities", h.ListCities).Methods(http.MethodGet)
	api.HandleFunc("/cities/{city}/overview", h.GetOverview).Methods(http.MethodGet)
	api.HandleFunc("/cities/{city}/report", h.GetReport).Methods(http.MethodGet)
	api.HandleFunc("/cities/{city}/trips", h.GetTrips).Methods(http.MethodGet)
	api.HandleFunc("/cities/{city}/cache", h.InvalidateCache).Methods(http.MethodDelete)
	api.HandleFunc("/docs/openapi.json", OpenAPISpec).Methods(http.MethodGet)
	api.HandleFunc("/docs", APIDocs).Methods(http.MethodGet)

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
}

// Package chi exposes the HTTP API: event ingestion, aggregate
// metrics, conversation listing, health, and prometheus exposition.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/helio-labs/llmpulse/internal/domain"
	domanalytics "github.com/helio-labs/llmpulse/internal/domain/analytics"
	analyticsuc "github.com/helio-labs/llmpulse/internal/usecase/analytics"
	eventuc "github.com/helio-labs/llmpulse/internal/usecase/event"
	healthuc "github.com/helio-labs/llmpulse/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	events        *eventuc.Service
	analytics     *analyticsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	events *eventuc.Service,
	analytics *analyticsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		events:    events,
		analytics: analytics,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/events", s.CreateEvent)
	r.Get("/api/metrics/overview", s.Overview)
	r.Get("/api/metrics/timeseries", s.TimeSeries)
	r.Get("/api/conversations", s.ListConversations)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// CreateEvent handles POST /api/events.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	evt, err := s.events.Create(r.Context(), req.toInput())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, eventToWire(&evt))
}

// Overview handles GET /api/metrics/overview.
func (s *Server) Overview(w http.ResponseWriter, r *http.Request) {
	hours := analyticsuc.DefaultOverviewHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "hours must be an integer")
			return
		}
		hours = v
	}

	ov, err := s.analytics.Overview(r.Context(), hours)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{
		TotalRequests:   ov.TotalRequests,
		TotalCost:       ov.TotalCost,
		AvgLatencyMs:    ov.AvgLatencyMs,
		ErrorRate:       ov.ErrorRate,
		RequestsByModel: ov.RequestsByModel,
	})
}

// TimeSeries handles GET /api/metrics/timeseries.
func (s *Server) TimeSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := parseTimeParam(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "start must be RFC3339")
		return
	}
	end, err := parseTimeParam(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "end must be RFC3339")
		return
	}

	interval := domanalytics.IntervalHour
	switch q.Get("interval") {
	case "", "1h":
	case "1d":
		interval = domanalytics.IntervalDay
	default:
		writeError(w, http.StatusBadRequest, codeValidationFailed, "interval must be 1h or 1d")
		return
	}

	metric := domanalytics.MetricRequests
	if raw := q.Get("metric"); raw != "" {
		metric, err = domanalytics.ParseMetric(raw)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	points, err := s.analytics.TimeSeries(r.Context(), analyticsuc.TimeSeriesQuery{
		Start:    start,
		End:      end,
		Interval: interval,
		Metric:   metric,
		Model:    q.Get("model"),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pointsToWire(points))
}

// ListConversations handles GET /api/conversations.
func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "page must be an integer")
			return
		}
		page = v
	}
	pageSize := 0
	if raw := q.Get("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "page_size must be an integer")
			return
		}
		pageSize = v
	}

	res, err := s.events.List(r.Context(), eventuc.ListParams{
		Page:     page,
		PageSize: pageSize,
		Model:    q.Get("model"),
		Status:   q.Get("status"),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	events := make([]eventResponse, len(res.Events))
	for i := range res.Events {
		events[i] = eventToWire(&res.Events[i])
	}

	writeJSON(w, http.StatusOK, conversationsResponse{
		Events:   events,
		Total:    res.Total,
		Page:     res.Page,
		PageSize: res.PageSize,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthToWire(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// validationHandler maps validation failures to 400 with the wrapped
// message.
func validationHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

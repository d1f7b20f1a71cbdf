// Package httpapi exposes the projection service over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"CrestCast/internal/logger"
	"CrestCast/internal/model"
	"CrestCast/internal/observability"
	"CrestCast/internal/projection"
	"CrestCast/internal/recorder"
	"CrestCast/internal/report"
	"CrestCast/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	maxBodyBytes        = 1 << 16
)

// ProjectionRequest is the body of POST /v1/projections.
type ProjectionRequest struct {
	model.ProjectionInputs
	Seed int64 `json:"seed"`
}

// Server routes HTTP requests to the projection service.
type Server struct {
	router  *mux.Router
	svc     *service.ProjectionService
	metrics *observability.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// NewServer builds the router. metrics may be nil, in which case /metrics is not served.
func NewServer(svc *service.ProjectionService, metrics *observability.Metrics) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		svc:     svc,
		metrics: metrics,
		log:     logger.GetForComponent("http"),
		now:     time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/projections", s.handleProject).Methods(http.MethodPost)
	api.HandleFunc("/assumptions", s.handleAssumptions).Methods(http.MethodGet)
	api.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)

	s.router.Use(s.loggingMiddleware)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// NewHTTPServer wraps the router in an http.Server with conservative timeouts.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// handleProject runs a projection. ?format=markdown|csv selects a text
// rendering instead of JSON.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "markdown", "csv":
	default:
		s.writeError(w, http.StatusBadRequest, "unknown format")
		return
	}

	var req ProjectionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.svc.Run(r.Context(), service.Request{
		Inputs: req.ProjectionInputs,
		Seed:   req.Seed,
		Source: recorder.SourceHTTP,
	})
	if err != nil {
		if errors.Is(err, projection.ErrInvalidInput) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("projection failed")
		s.writeError(w, http.StatusInternalServerError, "projection failed")
		return
	}

	switch format {
	case "markdown":
		s.writeText(w, "text/markdown; charset=utf-8", report.RenderMarkdown(req.ProjectionInputs, resp.Result, s.now()))
	case "csv":
		s.writeText(w, "text/csv; charset=utf-8", report.RenderCSV(resp.Result))
	default:
		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleAssumptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Config())
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			s.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	runs, err := s.svc.History(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("load history")
		s.writeError(w, http.StatusInternalServerError, "failed to retrieve runs")
		return
	}
	if runs == nil {
		runs = []recorder.RunSummary{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("encode JSON response")
	}
}

func (s *Server) writeText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSON(w, statusCode, map[string]any{
		"error":   true,
		"message": message,
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

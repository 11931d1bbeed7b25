package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitprint/internal/db"
	"github.com/kailas-cloud/hitprint/internal/domain/query"
	logpkg "github.com/kailas-cloud/hitprint/internal/logger"
	"github.com/kailas-cloud/hitprint/internal/metrics"
	healthuc "github.com/kailas-cloud/hitprint/internal/usecase/health"
	"github.com/kailas-cloud/hitprint/internal/usecase/project"
)

// maxBodyBytes bounds the project request body.
const maxBodyBytes = 1 << 20

// Error codes returned in JSON error bodies.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeIndexNotFound    = "index_not_found"
	CodeBackendError     = "backend_error"
	CodeInternalError    = "internal_error"
)

// Binder binds a query spec to the configured search backend.
type Binder interface {
	Bind(spec query.Spec) project.Query
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ProjectRequest is the JSON body of POST /v1/indexes/{index}/project.
// Query may be a JSON string or, for Elasticsearch, a raw request body object.
type ProjectRequest struct {
	Query        json.RawMessage `json:"query"`
	Fields       []string        `json:"fields"`
	Limit        int             `json:"limit"`
	Offset       int             `json:"offset"`
	ReturnFields []string        `json:"return_fields"`
}

// Server serves the projection HTTP API.
type Server struct {
	binder   Binder
	health   *healthuc.Service
	observer project.Observer
	logger   *zap.Logger
}

// NewServer creates an HTTP API server. observer can be nil.
func NewServer(binder Binder, health *healthuc.Service, observer project.Observer, logger *zap.Logger) *Server {
	return &Server{binder: binder, health: health, observer: observer, logger: logger}
}

// Routes builds the router with the full middleware chain.
func (s *Server) Routes(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/indexes/{index}/project", s.Project)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})
	return r
}

// Project handles POST /v1/indexes/{index}/project.
func (s *Server) Project(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	expr, err := expressionFromRaw(req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	spec, err := query.New(chi.URLParam(r, "index"), expr, req.Limit, req.Offset, req.ReturnFields)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	// Buffer so a backend failure can still be answered with a JSON error.
	var buf bytes.Buffer
	svc := project.New(project.WithOutput(&buf), project.WithObserver(s.observer))
	ctx := logpkg.With(r.Context(), zap.String("index", spec.Index()))
	if err := svc.Project(ctx, s.binder.Bind(spec), req.Fields); err != nil {
		s.handleBackendError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

func (s *Server) handleBackendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrIndexNotFound):
		s.logger.Warn("index not found", zap.Error(err))
		writeError(w, http.StatusNotFound, CodeIndexNotFound, db.ErrIndexNotFound.Error())
	default:
		s.logger.Error("query execution failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeBackendError, "search backend error")
	}
}

// expressionFromRaw accepts a JSON string or a JSON object and returns backend query text.
func expressionFromRaw(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid query string: %w", err)
		}
		return s, nil
	case '{':
		return string(raw), nil
	default:
		return "", errors.New("query must be a string or an object")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

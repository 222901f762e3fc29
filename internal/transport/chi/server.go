package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
	"github.com/kailas-cloud/cinedex/internal/domain/search/request"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/cinedex/internal/usecase/health"
	"github.com/kailas-cloud/cinedex/internal/version"
)

// Error codes returned in error bodies.
const (
	codeBadRequest   = "bad_request"
	codeNotReady     = "not_ready"
	codeNotFound     = "not_found"
	codeUnauthorized = "unauthorized"
	codeInternal     = "internal_error"
)

// Searcher is the consumer interface of the search use case.
type Searcher interface {
	SearchMode(ctx context.Context, raw string, limit int, m mode.Mode) result.Response
	IsReady() bool
	ItemCount() int
}

// Server serves the movie search HTTP API.
type Server struct {
	search Searcher
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{search: search, health: health, logger: logger}
}

// SearchMovies handles GET /api/search?q=&limit=&mode=.
func (s *Server) SearchMovies(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := strings.TrimSpace(params.Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter q is required")
		return
	}

	limit := 0
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid limit parameter")
			return
		}
		limit = n
	}

	req, err := request.New(q, mode.Mode(params.Get("mode")), limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	resp := s.search.SearchMode(r.Context(), req.Query(), req.RequestedLimit(), req.Mode())
	if !s.search.IsReady() {
		writeError(w, http.StatusServiceUnavailable, codeNotReady, "search service not available")
		return
	}

	writeJSON(w, http.StatusOK, responseToJSON(resp))
}

// Status handles GET /api/status and GET /status.
func (s *Server) Status(w http.ResponseWriter, _ *http.Request) {
	if !s.search.IsReady() {
		writeJSON(w, http.StatusOK, statusResponse{
			Status:  "not_ready",
			Message: "search service not initialized",
		})
		return
	}
	count := s.search.ItemCount()
	writeJSON(w, http.StatusOK, statusResponse{
		Status:     "ready",
		MovieCount: &count,
		Version:    version.Version,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotFound answers unknown routes with a JSON body.
func (s *Server) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, codeNotFound, "not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (s *Server) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

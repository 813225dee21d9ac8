// Package chi wires the HTTP API onto a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geodocs/internal/domain"
	"github.com/kailas-cloud/geodocs/internal/domain/search/request"
	documentuc "github.com/kailas-cloud/geodocs/internal/usecase/document"
	healthuc "github.com/kailas-cloud/geodocs/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geodocs/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the document API.
type Server struct {
	documents     *documentuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler

	defaultLimit int
	maxLimit     int
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents: documents,
		search:    search,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMissingQuery, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrInvalidCoordinates, http.StatusUnprocessableEntity, codeValidationFailed),
		sentinelHandler(domain.ErrValidation, http.StatusUnprocessableEntity, codeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
	}
	return s
}

// WithPagination overrides the built-in page size defaults.
func (s *Server) WithPagination(defaultLimit, maxLimit int) *Server {
	s.defaultLimit = defaultLimit
	s.maxLimit = maxLimit
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/documents", s.createDocument)
	r.Get("/documents", s.searchDocuments)
	r.Get("/documents/{id}", s.getDocument)
	r.Delete("/documents/{id}", s.deleteDocument)
	r.Get("/health", s.getHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// createDocument handles POST /documents.
func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc, err := s.documents.Create(
		r.Context(), req.Title, req.Author, req.Content, req.Date, req.Latitude, req.Longitude,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, documentToResponse(&doc))
}

// searchDocuments handles GET /documents.
func (s *Server) searchDocuments(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	limit := params.limit
	if limit <= 0 && s.defaultLimit > 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	req, err := request.New(
		params.keyword, params.phrase, params.latitude, params.longitude, params.page, limit,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	page, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(&page))
}

// getDocument handles GET /documents/{id}.
func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")
	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// deleteDocument handles DELETE /documents/{id}.
func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")
	if err := s.documents.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getHealth handles GET /health.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns an error message for the client without exposing
// internals. Validation messages pass through verbatim so the client learns
// which field failed.
func safeDomainMessage(err error) string {
	verbatim := []error{
		domain.ErrValidation,
		domain.ErrInvalidCoordinates,
		domain.ErrMissingQuery,
	}
	for _, s := range verbatim {
		if errors.Is(err, s) {
			return err.Error()
		}
	}

	if errors.Is(err, domain.ErrDocumentNotFound) {
		return domain.ErrDocumentNotFound.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pawmart/petsearch/internal/domain"
	"github.com/pawmart/petsearch/internal/domain/search/request"
	healthuc "github.com/pawmart/petsearch/internal/usecase/health"
	searchuc "github.com/pawmart/petsearch/internal/usecase/search"
	taxonomyuc "github.com/pawmart/petsearch/internal/usecase/taxonomy"
)

// API error codes returned in the error response body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeInvalidSpecies   = "invalid_species"
	codeUpstreamError    = "upstream_error"
	codeInternalError    = "internal_error"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// searchRequestDTO is the POST /v1/search request body.
type searchRequestDTO struct {
	Query         string         `json:"query"`
	Species       string         `json:"species"`
	Filters       map[string]any `json:"filters"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	EmbeddingText string         `json:"embedding_text"`
}

// Server is the HTTP API over the search, taxonomy, and health services.
type Server struct {
	search   *searchuc.Service
	taxonomy *taxonomyuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	taxonomy *taxonomyuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:   search,
		taxonomy: taxonomy,
		health:   health,
		logger:   logger,
	}
}

// Routes mounts all API handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.SearchProducts)
	r.Get("/v1/taxonomy/{species}", s.GetTaxonomy)
	r.Get("/v1/taxonomy/{species}/breeds", s.ListBreeds)
	r.Get("/v1/taxonomy/{species}/life-stages", s.ListLifeStages)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchProducts handles POST /v1/search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	var dto searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := request.New(
		dto.Query, dto.Species, dto.Filters, dto.Page, dto.Size, dto.EmbeddingText,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetTaxonomy handles GET /v1/taxonomy/{species}.
func (s *Server) GetTaxonomy(w http.ResponseWriter, r *http.Request) {
	sp, err := domain.ParseSpecies(chi.URLParam(r, "species"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	tax, err := s.taxonomy.Get(r.Context(), sp)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tax)
}

// ListBreeds handles GET /v1/taxonomy/{species}/breeds.
func (s *Server) ListBreeds(w http.ResponseWriter, r *http.Request) {
	sp, err := domain.ParseSpecies(chi.URLParam(r, "species"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	breeds, err := s.taxonomy.Breeds(r.Context(), sp)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"species": sp.String(),
		"breeds":  breeds,
	})
}

// ListLifeStages handles GET /v1/taxonomy/{species}/life-stages.
func (s *Server) ListLifeStages(w http.ResponseWriter, r *http.Request) {
	sp, err := domain.ParseSpecies(chi.URLParam(r, "species"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	stages, err := s.taxonomy.LifeStages(r.Context(), sp)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"species":     sp.String(),
		"life_stages": stages,
	})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// handleDomainError maps domain sentinels to HTTP responses. Validation
// errors keep their message so callers learn which field was rejected;
// upstream failures stay generic.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSpecies):
		writeError(w, http.StatusBadRequest, codeInvalidSpecies, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		s.logger.Warn("upstream error", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeUpstreamError, "search backend unavailable")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
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

// Package chi provides the HTTP surface of docdex over chi handlers.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
)

// DocumentService is the orchestrator surface the handlers need (ISP).
type DocumentService interface {
	Create(ctx context.Context, rubrics []string, text string) (domain.Document, error)
	Get(ctx context.Context, id int64) (domain.Document, error)
	Delete(ctx context.Context, id int64) error
}

// SearchService is the result assembler surface.
type SearchService interface {
	Search(ctx context.Context, query string) ([]domain.Document, error)
}

// IndexReader serves the direct index bypass endpoint.
type IndexReader interface {
	Get(ctx context.Context, id int64) (domain.StoredEntry, error)
}

// HealthService reports backing store readiness.
type HealthService interface {
	Check(ctx context.Context) (healthuc.Status, bool)
}

// Server implements the docdex HTTP API.
type Server struct {
	documents DocumentService
	search    SearchService
	index     IndexReader
	health    HealthService
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	documents DocumentService,
	search SearchService,
	index IndexReader,
	health HealthService,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		documents: documents,
		search:    search,
		index:     index,
		health:    health,
		logger:    logger,
	}
}

// Mount registers the API routes on a chi router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/documents/", s.createDocument)
	r.Get("/documents/{id}", s.getDocument)
	r.Delete("/documents/{id}", s.deleteDocument)
	r.Get("/search", s.searchDocuments)
	r.Get("/elasticsearch/documents/{id}", s.getIndexDocument)
	r.Get("/healthz", s.healthz)
}

type createDocumentRequest struct {
	Rubrics []string `json:"rubrics"`
	Text    string   `json:"text"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// createDocument handles POST /documents/.
func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	doc, err := s.documents.Create(r.Context(), req.Rubrics, req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// getDocument handles GET /documents/{id}.
func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// deleteDocument handles DELETE /documents/{id}.
func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.documents.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Document deleted successfully"})
}

// searchDocuments handles GET /search?query=...
func (s *Server) searchDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "query parameter is required")
		return
	}

	docs, err := s.search.Search(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		items = append(items, documentToResponse(d))
	}
	writeJSON(w, http.StatusOK, items)
}

// getIndexDocument handles GET /elasticsearch/documents/{id}: a direct
// index read that bypasses the record store.
func (s *Server) getIndexDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entry, err := s.index.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToResponse(domain.Document{
		ID:          id,
		Rubrics:     entry.Rubrics,
		Text:        entry.Text,
		CreatedDate: entry.CreatedDate,
	}))
}

// healthz handles GET /healthz.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	status, ok := s.health.Check(r.Context())
	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "document id must be an integer")
		return 0, false
	}
	return id, true
}

// handleDomainError maps domain errors to HTTP answers. An index error
// carrying the index's own status propagates that status to the caller.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	var ise *domain.IndexStatusError
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, "document_not_found", domain.ErrDocumentNotFound.Error())
	case errors.As(err, &ise):
		s.logger.Warn("index error", zap.Error(err))
		writeError(w, ise.StatusCode, "index_unavailable", ise.Detail)
	case errors.Is(err, domain.ErrIndexUnavailable):
		s.logger.Warn("index unreachable", zap.Error(err))
		writeError(w, http.StatusBadGateway, "index_unavailable", domain.ErrIndexUnavailable.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// documentToResponse keeps rubrics a JSON array even when unset.
func documentToResponse(d domain.Document) domain.Document {
	if d.Rubrics == nil {
		d.Rubrics = []string{}
	}
	return d
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

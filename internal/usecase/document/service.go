// Package document implements the dual-write orchestrator. Every mutation
// runs the record store step first and the index mirror step second; the
// ordering decides which store is ahead while a mirror call is failing.
package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/metrics"
)

// Repository is the record store surface the orchestrator needs (ISP).
type Repository interface {
	Insert(ctx context.Context, rubrics []string, text string) (domain.Document, error)
	Get(ctx context.Context, id int64) (domain.Document, error)
	Delete(ctx context.Context, id int64) error
}

// Index is the mirror surface the orchestrator needs.
type Index interface {
	Put(ctx context.Context, id int64, entry domain.IndexEntry) error
	Delete(ctx context.Context, id int64) error
}

// Service sequences record store mutations with their index mirror calls.
type Service struct {
	repo   Repository
	index  Index
	logger *zap.Logger
}

// New creates a document service.
func New(repo Repository, index Index, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, index: index, logger: logger}
}

// Create inserts the document, then mirrors it into the index. The insert
// is authoritative: if it fails, no index call is made. A failed mirror
// put does not fail the request — the document is durably created and
// returned, and the failure is logged and counted (store-wins policy).
func (s *Service) Create(ctx context.Context, rubrics []string, text string) (domain.Document, error) {
	doc, err := s.repo.Insert(ctx, rubrics, text)
	if err != nil {
		return domain.Document{}, fmt.Errorf("create document: %w", err)
	}

	entry := domain.IndexEntry{Text: doc.Text, CreatedDate: doc.CreatedDate}
	if err := s.index.Put(ctx, doc.ID, entry); err != nil {
		metrics.IndexMirrorFailuresTotal.WithLabelValues("put").Inc()
		s.logger.Warn("index mirror write failed",
			zap.Int64("document_id", doc.ID),
			zap.Error(err),
		)
	}

	return doc, nil
}

// Get reads a document from the record store. The index is never touched.
func (s *Service) Get(ctx context.Context, id int64) (domain.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes the document, then its mirror entry. A missing id fails
// before any index call. Unlike Create, a failed mirror delete is
// returned to the caller even though the row is already gone: a dangling
// index entry for a deleted document must not pass silently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if err := s.index.Delete(ctx, id); err != nil {
		metrics.IndexMirrorFailuresTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("delete index entry %d: %w", id, err)
	}
	return nil
}

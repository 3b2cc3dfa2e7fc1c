// Package search implements the result assembler: a full-text query
// against the index fanned back out into per-hit index reads, preserving
// the index's recency ordering.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/metrics"
)

// maxHits caps a search response; callers rely on the bound.
const maxHits = 20

// Index is the search surface the assembler needs (ISP).
type Index interface {
	Search(ctx context.Context, query string, size int) ([]domain.Hit, error)
	Get(ctx context.Context, id int64) (domain.StoredEntry, error)
}

// Service assembles authoritative, ordered results from raw index hits.
type Service struct {
	index  Index
	logger *zap.Logger
}

// New creates a search service.
func New(index Index, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{index: index, logger: logger}
}

// Search runs the query and resolves every hit into a full record via a
// second index read; the search response's embedded fields are not
// trusted as final. A hit whose fetch fails is dropped (counted and
// logged), it never fails the whole search. The result keeps the index's
// order, holds at most 20 documents, and may be empty.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Document, error) {
	hits, err := s.index.Search(ctx, query, maxHits)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	docs := make([]domain.Document, 0, len(hits))
	for _, hit := range hits {
		entry, err := s.index.Get(ctx, hit.ID)
		if err != nil {
			metrics.SearchDroppedHitsTotal.Inc()
			s.logger.Warn("dropping search hit",
				zap.Int64("document_id", hit.ID),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, domain.Document{
			ID:          hit.ID,
			Rubrics:     entry.Rubrics,
			Text:        entry.Text,
			CreatedDate: entry.CreatedDate,
		})
	}
	return docs, nil
}

// Package health reports readiness of both backing stores.
package health

import "context"

// Checker verifies a backing store's availability.
type Checker interface {
	Ping(ctx context.Context) error
}

// Status is the per-store health report.
type Status struct {
	RecordStore string `json:"record_store"`
	SearchIndex string `json:"search_index"`
}

// Service checks the record store and the search index.
type Service struct {
	store Checker
	index Checker
}

// New creates a health service.
func New(store, index Checker) *Service {
	return &Service{store: store, index: index}
}

// Check pings both stores. The second return value is true when both are up.
func (s *Service) Check(ctx context.Context) (Status, bool) {
	status := Status{RecordStore: "ok", SearchIndex: "ok"}
	healthy := true

	if err := s.store.Ping(ctx); err != nil {
		status.RecordStore = err.Error()
		healthy = false
	}
	if err := s.index.Ping(ctx); err != nil {
		status.SearchIndex = err.Error()
		healthy = false
	}
	return status, healthy
}

// Package elastic implements the index adapter: the derived, searchable
// mirror of the record store, keyed by the record's id under a single
// fixed index. The record store stays authoritative; everything here is
// best-effort mirroring plus the search read path.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
)

// mapping matches the record store columns the index mirrors.
const mapping = `{
	"mappings": {
		"properties": {
			"id":           {"type": "integer"},
			"text":         {"type": "text"},
			"created_date": {"type": "date"}
		}
	}
}`

// maxDetailBytes bounds how much of an index error body is carried in errors.
const maxDetailBytes = 2048

// Config holds the index service connection settings.
type Config struct {
	Addresses      []string
	Index          string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// Repo implements the index adapter over the Elasticsearch REST API.
type Repo struct {
	client  *elasticsearch.Client
	index   string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates an index repository.
func New(cfg Config) (*Repo, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	index := cfg.Index
	if index == "" {
		index = "documents"
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Repo{client: client, index: index, timeout: timeout, logger: logger}, nil
}

// Put upserts the mirror entry for a document id.
func (r *Repo) Put(ctx context.Context, id int64, entry domain.IndexEntry) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal index entry: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: docID(id),
		Body:       bytes.NewReader(body),
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("index put %d: %w: %w", id, domain.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return fmt.Errorf("index put %d: %w", id, domain.NewIndexStatusError(res.StatusCode, readDetail(res.Body)))
	}
	return nil
}

// Get reads the stored mirror entry by document id.
func (r *Repo) Get(ctx context.Context, id int64) (domain.StoredEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := esapi.GetRequest{
		Index:      r.index,
		DocumentID: docID(id),
	}.Do(ctx, r.client)
	if err != nil {
		return domain.StoredEntry{}, fmt.Errorf("index get %d: %w: %w", id, domain.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return domain.StoredEntry{}, domain.ErrDocumentNotFound
	}
	if res.StatusCode != http.StatusOK {
		return domain.StoredEntry{}, fmt.Errorf(
			"index get %d: %w", id, domain.NewIndexStatusError(res.StatusCode, readDetail(res.Body)))
	}

	var envelope struct {
		Source domain.StoredEntry `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return domain.StoredEntry{}, fmt.Errorf("decode index get %d: %w", id, err)
	}
	if envelope.Source.Rubrics == nil {
		envelope.Source.Rubrics = []string{}
	}
	return envelope.Source, nil
}

// Delete removes the mirror entry. 200 and 202 are successful deletions;
// anything else, a 404 included, surfaces the index's answer.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := esapi.DeleteRequest{
		Index:      r.index,
		DocumentID: docID(id),
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("index delete %d: %w: %w", id, domain.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusAccepted {
		return fmt.Errorf("index delete %d: %w", id, domain.NewIndexStatusError(res.StatusCode, readDetail(res.Body)))
	}
	return nil
}

// Search runs a full-text match on the text field, newest first, capped
// at size hits. Hit order is the contract the assembler preserves.
func (r *Repo) Search(ctx context.Context, query string, size int) ([]domain.Hit, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"text"},
			},
		},
		"size": size,
		"sort": []map[string]string{{"created_date": "desc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("index search: %w: %w", domain.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index search: %w", domain.NewIndexStatusError(res.StatusCode, readDetail(res.Body)))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]domain.Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			r.logger.Warn("skipping hit with non-numeric id", zap.String("_id", h.ID))
			continue
		}
		hits = append(hits, domain.Hit{ID: id})
	}
	return hits, nil
}

// EnsureIndex creates the index with its mapping. An index that already
// exists is not an error.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  strings.NewReader(mapping),
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w: %w", r.index, domain.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		detail := readDetail(res.Body)
		if res.StatusCode == http.StatusBadRequest && strings.Contains(detail, "resource_already_exists_exception") {
			r.logger.Info("index already exists", zap.String("index", r.index))
			return nil
		}
		return fmt.Errorf("create index %s: %w", r.index, domain.NewIndexStatusError(res.StatusCode, detail))
	}
	return nil
}

// Ping checks index service connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := esapi.PingRequest{}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("ping search index: %w: %w", domain.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("ping search index: %w", domain.NewIndexStatusError(res.StatusCode, readDetail(res.Body)))
	}
	return nil
}

// WaitForReady pings the index service until it answers or timeout expires.
func (r *Repo) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		if lastErr = r.Ping(ctx); lastErr == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("search index not ready after %s: %w", timeout, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxDetailBytes))
	if err != nil {
		return ""
	}
	return string(data)
}

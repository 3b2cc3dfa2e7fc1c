// Package postgres implements the record store adapter. The documents
// table is the system of record: it assigns ids and creation timestamps,
// and every mutation here happens before the matching index mirror call.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/docdex/internal/domain"
)

// db is the consumer interface over the pgx pool (ISP).
type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
	id           bigserial PRIMARY KEY,
	rubrics      text[]      NOT NULL DEFAULT '{}',
	text         text        NOT NULL,
	created_date timestamptz NOT NULL DEFAULT now()
)`

// Repo implements the document record store over PostgreSQL.
type Repo struct {
	db      db
	timeout time.Duration
}

// New creates a record store repository. queryTimeout bounds every call.
func New(pool db, queryTimeout time.Duration) *Repo {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &Repo{db: pool, timeout: queryTimeout}
}

// Insert stores a new document. The database assigns id and created_date.
func (r *Repo) Insert(ctx context.Context, rubrics []string, text string) (domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if rubrics == nil {
		rubrics = []string{}
	}

	doc := domain.Document{Rubrics: rubrics, Text: text}
	err := r.db.QueryRow(ctx,
		`INSERT INTO documents (rubrics, text) VALUES ($1, $2) RETURNING id, created_date`,
		rubrics, text,
	).Scan(&doc.ID, &doc.CreatedDate)
	if err != nil {
		return domain.Document{}, fmt.Errorf("insert document: %w: %w", domain.ErrStoreWrite, err)
	}
	return doc, nil
}

// Get returns a document by id.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := domain.Document{ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT rubrics, text, created_date FROM documents WHERE id = $1`,
		id,
	).Scan(&doc.Rubrics, &doc.Text, &doc.CreatedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document %d: %w", id, err)
	}
	if doc.Rubrics == nil {
		doc.Rubrics = []string{}
	}
	return doc, nil
}

// Delete removes a document by id. A missing id maps to ErrDocumentNotFound.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document %d: %w: %w", id, domain.ErrStoreWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// EnsureSchema creates the documents table if it does not exist yet.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

// Ping checks record store connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping record store: %w", err)
	}
	return nil
}

// WaitForReady pings the record store until it answers or timeout expires.
func (r *Repo) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		if lastErr = r.Ping(ctx); lastErr == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("record store not ready after %s: %w", timeout, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

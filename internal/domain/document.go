package domain

import "time"

// Document is the authoritative record held by the relational store.
type Document struct {
	ID          int64     `json:"id"`
	Rubrics     []string  `json:"rubrics"`
	Text        string    `json:"text"`
	CreatedDate time.Time `json:"created_date"`
}

// IndexEntry is the payload mirrored into the search index on create.
// Rubrics are not part of the mirror; the index carries only the
// searchable body and the recency sort key.
type IndexEntry struct {
	Text        string    `json:"text"`
	CreatedDate time.Time `json:"created_date"`
}

// StoredEntry is what a direct index read returns. Rubrics default to
// empty because the mirror payload never carries them.
type StoredEntry struct {
	Rubrics     []string  `json:"rubrics"`
	Text        string    `json:"text"`
	CreatedDate time.Time `json:"created_date"`
}

// Hit is a single full-text search hit, in the order the index returned it.
type Hit struct {
	ID int64
}

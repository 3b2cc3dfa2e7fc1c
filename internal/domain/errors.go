package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrStoreWrite signals a failed record store mutation.
	ErrStoreWrite = errors.New("record store write failed")
	// ErrIndexUnavailable signals a failed call to the search index.
	ErrIndexUnavailable = errors.New("search index unavailable")
)

// IndexStatusError wraps ErrIndexUnavailable with the status code and
// detail the index service answered with, so transports can propagate
// the index's own status to the caller.
type IndexStatusError struct {
	StatusCode int
	Detail     string
}

func (e *IndexStatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrIndexUnavailable.Error(), e.StatusCode, e.Detail)
}

func (e *IndexStatusError) Unwrap() error { return ErrIndexUnavailable }

// NewIndexStatusError creates an index error carrying the service's answer.
func NewIndexStatusError(statusCode int, detail string) error {
	return &IndexStatusError{StatusCode: statusCode, Detail: detail}
}

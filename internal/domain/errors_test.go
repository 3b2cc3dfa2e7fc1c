package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIndexStatusError_Unwrap(t *testing.T) {
	err := NewIndexStatusError(503, "no shard available")

	if !errors.Is(err, ErrIndexUnavailable) {
		t.Error("expected errors.Is(err, ErrIndexUnavailable)")
	}

	var ise *IndexStatusError
	if !errors.As(err, &ise) {
		t.Fatal("expected errors.As to find *IndexStatusError")
	}
	if ise.StatusCode != 503 {
		t.Errorf("status = %d, want 503", ise.StatusCode)
	}
	if ise.Detail != "no shard available" {
		t.Errorf("detail = %q", ise.Detail)
	}
}

func TestIndexStatusError_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("delete index entry 7: %w", NewIndexStatusError(404, "not found"))

	var ise *IndexStatusError
	if !errors.As(err, &ise) {
		t.Fatal("expected errors.As through fmt.Errorf wrap")
	}
	if ise.StatusCode != 404 {
		t.Errorf("status = %d, want 404", ise.StatusCode)
	}
}

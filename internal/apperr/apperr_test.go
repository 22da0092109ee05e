// ABOUTME: Tests for the error taxonomy
// ABOUTME: Verifies wrapping, unwrapping, and errors.As matching for each kind
package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTaxonomyWrapping(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{"content processing", &ContentProcessingError{Op: "caption", Err: cause}, "caption"},
		{"embedding", &EmbeddingError{Err: cause}, "embedding failed"},
		{"store", &StoreError{Op: "create", Err: cause}, "store create failed"},
		{"projection", &ProjectionError{Err: cause}, "projection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.wantText) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.wantText)
			}
			if !errors.Is(tt.err, cause) {
				t.Error("errors.Is() does not reach the wrapped cause")
			}
		})
	}
}

func TestTaxonomyMatching(t *testing.T) {
	wrapped := fmt.Errorf("layout: %w", &ProjectionError{Err: errors.New("diverged")})

	var perr *ProjectionError
	if !errors.As(wrapped, &perr) {
		t.Fatal("errors.As() failed to match ProjectionError through a wrap")
	}
	if perr.Err.Error() != "diverged" {
		t.Errorf("cause = %q, want diverged", perr.Err.Error())
	}

	var serr *StoreError
	if errors.As(wrapped, &serr) {
		t.Error("errors.As() matched StoreError for a projection failure")
	}
}

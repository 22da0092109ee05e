// ABOUTME: Tests for the error-to-status taxonomy mapping
// ABOUTME: Each pipeline error class must land on its documented status code
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tessellate-systems/lattice/internal/apperr"
	"github.com/tessellate-systems/lattice/internal/core"
)

func TestRespondTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			"not found",
			fmt.Errorf("deleting: %w", core.ErrNotFound),
			http.StatusNotFound, "not_found",
		},
		{
			"content processing",
			&apperr.ContentProcessingError{Op: "caption", Err: errors.New("model down")},
			http.StatusBadGateway, "content_processing_failed",
		},
		{
			"embedding",
			&apperr.EmbeddingError{Err: errors.New("rate limited")},
			http.StatusBadGateway, "embedding_failed",
		},
		{
			"store",
			&apperr.StoreError{Op: "create", Err: errors.New("disk full")},
			http.StatusInternalServerError, "store_failure",
		},
		{
			"unclassified",
			errors.New("something else"),
			http.StatusInternalServerError, "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondTaxonomy(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("bad envelope: %v", err)
			}
			if envelope.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", envelope.Error.Code, tt.wantCode)
			}
		})
	}
}

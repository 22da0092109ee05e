// ABOUTME: JSON response envelope and error-to-status mapping
// ABOUTME: Translates the pipeline error taxonomy into API responses
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessellate-systems/lattice/internal/apperr"
	"github.com/tessellate-systems/lattice/internal/core"
)

// APIError is the wire form of a failed request
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes a JSON error envelope
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// RespondOK writes a 200 with the payload
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondTaxonomy maps a pipeline error onto the API surface. Content
// processing and embedding failures are upstream-service problems; store
// failures are internal; not-found is the caller's mistake.
func RespondTaxonomy(c *gin.Context, err error) {
	var (
		contentErr   *apperr.ContentProcessingError
		embeddingErr *apperr.EmbeddingError
		storeErr     *apperr.StoreError
	)
	switch {
	case errors.Is(err, core.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.As(err, &contentErr):
		RespondError(c, http.StatusBadGateway, "content_processing_failed", err)
	case errors.As(err, &embeddingErr):
		RespondError(c, http.StatusBadGateway, "embedding_failed", err)
	case errors.As(err, &storeErr):
		RespondError(c, http.StatusInternalServerError, "store_failure", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

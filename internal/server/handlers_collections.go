// ABOUTME: Collection read handlers: listing, entry views, and 2D projections
// ABOUTME: Projections reuse cached layouts keyed by the collection snapshot
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessellate-systems/lattice/internal/core"
	"github.com/tessellate-systems/lattice/internal/models"
)

// CollectionHandler serves collection reads and projection requests
type CollectionHandler struct {
	log  *Logger
	svc  *core.CollectionService
	defs []string
}

// NewCollectionHandler creates a CollectionHandler. defaults are collection
// names always reported even before any entry lands in them.
func NewCollectionHandler(log *Logger, svc *core.CollectionService, defaults []string) *CollectionHandler {
	return &CollectionHandler{log: log.With("handler", "collections"), svc: svc, defs: defaults}
}

// List handles GET /api/collections
func (h *CollectionHandler) List(c *gin.Context) {
	infos, err := h.svc.Collections()
	if err != nil {
		h.log.Error("list collections failed", "error", err)
		RespondTaxonomy(c, err)
		return
	}

	seen := make(map[string]bool, len(infos))
	for _, info := range infos {
		seen[info.Name] = true
	}
	for _, name := range h.defs {
		if !seen[name] {
			infos = append(infos, models.CollectionInfo{Name: name})
			seen[name] = true
		}
	}
	RespondOK(c, gin.H{"collections": infos})
}

type createCollectionRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /api/collections. Collections spring into being with
// their first entry, so creation only validates the name is unclaimed.
func (h *CollectionHandler) Create(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	infos, err := h.svc.Collections()
	if err != nil {
		h.log.Error("list collections failed", "error", err)
		RespondTaxonomy(c, err)
		return
	}
	for _, info := range infos {
		if info.Name == req.Name {
			RespondError(c, http.StatusConflict, "collection_exists", nil)
			return
		}
	}
	RespondOK(c, gin.H{"name": req.Name})
}

// View handles GET /api/collection/:name
func (h *CollectionHandler) View(c *gin.Context) {
	name := c.Param("name")
	entries, err := h.svc.View(name)
	if err != nil {
		h.log.Error("collection view failed", "collection", name, "error", err)
		RespondTaxonomy(c, err)
		return
	}
	RespondOK(c, gin.H{"collection": name, "entries": entries})
}

// Project handles GET and POST /api/projection/:name
func (h *CollectionHandler) Project(c *gin.Context) {
	name := c.Param("name")
	placed, err := h.svc.ProjectCollection(name)
	if err != nil {
		h.log.Error("projection failed", "collection", name, "error", err)
		RespondTaxonomy(c, err)
		return
	}
	RespondOK(c, gin.H{"collection": name, "points": placed})
}

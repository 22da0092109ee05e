// ABOUTME: Entry mutation handlers: text/media ingestion and deletion
// ABOUTME: Multipart uploads for image and audio, JSON for text entries
package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessellate-systems/lattice/internal/core"
	"github.com/tessellate-systems/lattice/internal/models"
)

// maxUploadBytes bounds a single image or audio upload
const maxUploadBytes = 32 << 20

// EntryHandler serves the entry write path
type EntryHandler struct {
	log      *Logger
	pipeline *core.Pipeline
}

// NewEntryHandler creates an EntryHandler
func NewEntryHandler(log *Logger, pipeline *core.Pipeline) *EntryHandler {
	return &EntryHandler{log: log.With("handler", "entries"), pipeline: pipeline}
}

type addEntryRequest struct {
	Data       string         `json:"data" binding:"required"`
	Collection string         `json:"collection"`
	ParentID   string         `json:"parentId"`
	Author     *models.Author `json:"author"`
}

// AddText handles POST /api/add
func (h *EntryHandler) AddText(c *gin.Context) {
	var req addEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	entry, err := h.pipeline.AddText(c.Request.Context(), req.Data, core.IngestRequest{
		Collection: req.Collection,
		ParentID:   req.ParentID,
		Author:     req.Author,
	})
	if err != nil {
		h.log.Error("add text failed", "error", err)
		RespondTaxonomy(c, err)
		return
	}
	RespondOK(c, gin.H{"id": entry.ID, "type": entry.Metadata.Type, "data": entry.Data})
}

// AddImage handles POST /api/add_image (multipart: image, collection, parentId)
func (h *EntryHandler) AddImage(c *gin.Context) {
	data, filename, ok := h.readUpload(c, "image")
	if !ok {
		return
	}

	entry, err := h.pipeline.AddImage(c.Request.Context(), data, filename, h.ingestFields(c))
	if err != nil {
		h.log.Error("add image failed", "error", err)
		RespondTaxonomy(c, err)
		return
	}
	RespondOK(c, gin.H{
		"id":       entry.ID,
		"caption":  entry.Data,
		"imageUrl": entry.Metadata.ImageURL,
	})
}

// AddAudio handles POST /api/add_audio (multipart: audio, collection, parentId)
func (h *EntryHandler) AddAudio(c *gin.Context) {
	data, filename, ok := h.readUpload(c, "audio")
	if !ok {
		return
	}

	entry, err := h.pipeline.AddAudio(c.Request.Context(), data, filename, h.ingestFields(c))
	if err != nil {
		h.log.Error("add audio failed", "error", err)
		RespondTaxonomy(c, err)
		return
	}
	RespondOK(c, gin.H{
		"id":         entry.ID,
		"transcript": entry.Data,
		"audioUrl":   entry.Metadata.AudioURL,
	})
}

// DeleteEntry handles DELETE /api/entry/:id, cascading to comments
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	if err := h.pipeline.DeleteEntry(id); err != nil {
		h.log.Error("delete entry failed", "id", id, "error", err)
		RespondTaxonomy(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id})
}

// DeleteComment handles DELETE /api/comment/:id; the target must be a comment
func (h *EntryHandler) DeleteComment(c *gin.Context) {
	id := c.Param("id")
	if err := h.pipeline.DeleteComment(id); err != nil {
		h.log.Error("delete comment failed", "id", id, "error", err)
		RespondTaxonomy(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id})
}

// readUpload extracts one bounded multipart file field
func (h *EntryHandler) readUpload(c *gin.Context, field string) ([]byte, string, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return nil, "", false
	}
	if fileHeader.Size > maxUploadBytes {
		RespondError(c, http.StatusBadRequest, "file_too_large", nil)
		return nil, "", false
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return nil, "", false
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

// ingestFields pulls the common multipart ingestion fields
func (h *EntryHandler) ingestFields(c *gin.Context) core.IngestRequest {
	return core.IngestRequest{
		Collection: c.PostForm("collection"),
		ParentID:   c.PostForm("parentId"),
	}
}

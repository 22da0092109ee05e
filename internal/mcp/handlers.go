// ABOUTME: MCP tool handler implementations for the lattice server
// ABOUTME: Thin adapters from tool arguments onto the ingestion pipeline
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tessellate-systems/lattice/internal/core"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	pipeline    *core.Pipeline
	collections *core.CollectionService
}

// AddEntry handles the add_entry tool
func (h *Handlers) AddEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := request.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError("data argument is required and must be a string"), nil
	}
	collection := request.GetString("collection", "")

	entry, err := h.pipeline.AddText(ctx, data, core.IngestRequest{Collection: collection})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add entry failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"id":         entry.ID,
		"type":       entry.Metadata.Type,
		"collection": entry.Collection,
		"data":       entry.Data,
	})
}

// AddComment handles the add_comment tool
func (h *Handlers) AddComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := request.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError("data argument is required and must be a string"), nil
	}
	parentID, err := request.RequireString("parent_id")
	if err != nil {
		return mcp.NewToolResultError("parent_id argument is required and must be a string"), nil
	}

	entry, err := h.pipeline.AddText(ctx, data, core.IngestRequest{ParentID: parentID})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add comment failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"id":        entry.ID,
		"parent_id": entry.ParentID,
		"data":      entry.Data,
	})
}

// ListCollections handles the list_collections tool
func (h *Handlers) ListCollections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := h.collections.Collections()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list collections failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"collections": infos})
}

// GetCollection handles the get_collection tool
func (h *Handlers) GetCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection := request.GetString("collection", "default")

	entries, err := h.collections.View(collection)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get collection failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"collection": collection,
		"entries":    entries,
	})
}

// ProjectCollection handles the project_collection tool
func (h *Handlers) ProjectCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection := request.GetString("collection", "default")

	placed, err := h.collections.ProjectCollection(collection)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("projection failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"collection": collection,
		"points":     placed,
	})
}

// DeleteEntry handles the delete_entry tool
func (h *Handlers) DeleteEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	if err := h.pipeline.DeleteEntry(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"deleted": id})
}

// jsonResult marshals a payload into a text tool result
func jsonResult(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ABOUTME: MCP tool definitions and registration for the lattice server
// ABOUTME: Defines JSON schemas for all 6 entry and collection tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tessellate-systems/lattice/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, pipeline *core.Pipeline, collections *core.CollectionService) *Handlers {
	handlers := &Handlers{
		pipeline:    pipeline,
		collections: collections,
	}

	// 1. add_entry - Ingest a text entry into a collection
	server.AddTool(mcp.Tool{
		Name:        "add_entry",
		Description: "Add a text entry to a collection. URLs pointing at YouTube or Spotify are recognized and stored with their resolved titles.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"data": map[string]interface{}{
					"type":        "string",
					"description": "Text content or URL to ingest",
				},
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection name (default: \"default\")",
				},
			},
			Required: []string{"data"},
		},
	}, handlers.AddEntry)

	// 2. add_comment - Attach a comment to an existing top-level entry
	server.AddTool(mcp.Tool{
		Name:        "add_comment",
		Description: "Attach a text comment to an existing top-level entry. Comments cannot themselves receive comments.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"data": map[string]interface{}{
					"type":        "string",
					"description": "Comment text",
				},
				"parent_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the entry to comment on",
				},
			},
			Required: []string{"data", "parent_id"},
		},
	}, handlers.AddComment)

	// 3. list_collections - List collection names with entry counts
	server.AddTool(mcp.Tool{
		Name:        "list_collections",
		Description: "List all collections with their entry counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListCollections)

	// 4. get_collection - Fetch a collection's entries with nested comments
	server.AddTool(mcp.Tool{
		Name:        "get_collection",
		Description: "Get all entries in a collection, newest first, with comments nested under their parents.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection name (default: \"default\")",
				},
			},
		},
	}, handlers.GetCollection)

	// 5. project_collection - Compute the 2D semantic layout
	server.AddTool(mcp.Tool{
		Name:        "project_collection",
		Description: "Compute 2D positions for every entry and comment in a collection so semantically similar items land near each other.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection name (default: \"default\")",
				},
			},
		},
	}, handlers.ProjectCollection)

	// 6. delete_entry - Delete an entry and its comments
	server.AddTool(mcp.Tool{
		Name:        "delete_entry",
		Description: "Delete an entry by ID. Deleting a top-level entry also deletes its comments.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the entry to delete",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.DeleteEntry)

	return handlers
}

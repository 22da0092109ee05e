// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to ingest and project collections via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tessellate-systems/lattice/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs lattice as an MCP (Model Context Protocol) server, enabling
LLM agents to add entries, comment on them, and read collection
projections via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  lattice mcp

  # Configure in the host's MCP config:
  # {
  #   "mcpServers": {
  #     "lattice": {
  #       "command": "lattice",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer(
		"Lattice",
		"0.1.0",
	)

	mcp.RegisterTools(server, a.pipeline, a.collections)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Lattice MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

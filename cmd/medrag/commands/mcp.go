// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to use the RAG pipeline via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/medrag/internal/config"
	"github.com/harper/medrag/internal/mcp"
	"github.com/harper/medrag/internal/pipeline"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the RAG pipeline as an MCP (Model Context Protocol) server,
exposing question answering, retrieval, and index management tools
over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  medrag mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "medrag": {
  #       "command": "medrag",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and generation will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	p := pipeline.New(cfg)

	// Load a persisted index if one exists. The server still starts
	// without one; the build_index tool can create it later.
	if count, err := p.BuildIndex(cmd.Context(), false); err != nil {
		log.Printf("Warning: could not load index at startup: %v", err)
	} else if count > 0 && verbose {
		log.Printf("Index ready with %d chunks", count)
	}

	server := mcpserver.NewMCPServer(
		"Medical RAG System",
		"0.1.0",
	)

	mcp.RegisterTools(server, p)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Medical RAG MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

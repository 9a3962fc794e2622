// ABOUTME: Main entry point for the medical RAG MCP server with stdio transport
// ABOUTME: Initializes the pipeline and MCP server with all question-answering tools
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/medrag/internal/config"
	"github.com/harper/medrag/internal/mcp"
	"github.com/harper/medrag/internal/pipeline"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and generation will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	p := pipeline.New(cfg)

	// Load a persisted index if one exists. The server still starts
	// without one; the build_index tool can create it later.
	if count, err := p.BuildIndex(context.Background(), false); err != nil {
		log.Printf("Warning: could not load index at startup: %v", err)
	} else if count > 0 {
		log.Printf("Index ready with %d chunks", count)
	}

	server := mcpserver.NewMCPServer(
		"Medical RAG System",
		"0.1.0",
	)

	mcp.RegisterTools(server, p)

	log.Println("Medical RAG MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

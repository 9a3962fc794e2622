// ABOUTME: MCP tool definitions and registration for the medical RAG server
// ABOUTME: Defines JSON schemas for the 4 question-answering tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/medrag/internal/pipeline"
)

// RegisterTools registers all MCP tools with the server and wires the
// metrics observer into the pipeline
func RegisterTools(server *mcpserver.MCPServer, p *pipeline.Pipeline) *Handlers {
	handlers := &Handlers{
		pipeline: p,
		metrics:  NewMetrics(),
	}
	p.SetObserver(handlers.metrics)

	// 1. ask_question - Full RAG question answering
	server.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a medical question using retrieval-augmented generation over the indexed document corpus. Returns the answer with its sources and supporting context.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Medical question to answer",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of context chunks to retrieve (default: 5)",
					"default":     5,
				},
				"no_rag": map[string]interface{}{
					"type":        "boolean",
					"description": "Skip retrieval and answer from the model alone",
					"default":     false,
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskQuestion)

	// 2. retrieve_chunks - Similarity search without generation
	server.AddTool(mcp.Tool{
		Name:        "retrieve_chunks",
		Description: "Retrieve the most similar document chunks for a query without generating an answer. Useful for inspecting what the index returns.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.RetrieveChunks)

	// 3. build_index - Build or rebuild the vector index
	server.AddTool(mcp.Tool{
		Name:        "build_index",
		Description: "Build the vector index from the document directory. Loads the persisted index when one exists unless force is set.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "Rebuild even if a persisted index exists",
					"default":     false,
				},
			},
		},
	}, handlers.BuildIndex)

	// 4. system_status - Pipeline state and serving metrics
	server.AddTool(mcp.Tool{
		Name:        "system_status",
		Description: "Report index state, model state, and serving metrics.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.SystemStatus)

	return handlers
}

// ABOUTME: MCP tool handler implementations for the medical RAG server
// ABOUTME: Translates tool requests into pipeline calls and JSON responses
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/medrag/internal/models"
	"github.com/harper/medrag/internal/pipeline"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	pipeline *pipeline.Pipeline
	metrics  *Metrics
}

// Metrics exposes the serving metrics collector
func (h *Handlers) Metrics() *Metrics {
	return h.metrics
}

// AskQuestion handles the ask_question tool
func (h *Handlers) AskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", 0)
	noRAG := request.GetBool("no_rag", false)

	result, err := h.ask(ctx, question, topK, noRAG)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

func (h *Handlers) ask(ctx context.Context, question string, topK int, noRAG bool) (models.Answer, error) {
	if noRAG {
		return h.pipeline.QueryWithoutRAG(ctx, question)
	}
	return h.pipeline.Query(ctx, question, topK, 0)
}

// RetrieveChunks handles the retrieve_chunks tool
func (h *Handlers) RetrieveChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", 0)

	results, err := h.pipeline.Retrieve(ctx, query, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"query":   query,
		"results": results,
		"count":   len(results),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// BuildIndex handles the build_index tool
func (h *Handlers) BuildIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	force := request.GetBool("force", false)

	count, err := h.pipeline.BuildIndex(ctx, force)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index build failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"chunks_indexed": count,
		"forced":         force,
		"index_built":    h.pipeline.IndexBuilt(),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SystemStatus handles the system_status tool
func (h *Handlers) SystemStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"index_built":  h.pipeline.IndexBuilt(),
		"index_size":   h.pipeline.IndexSize(),
		"model_loaded": h.pipeline.ModelLoaded(),
		"metrics":      h.metrics.Snapshot(),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ABOUTME: CLI command to ask a medical question
// ABOUTME: Runs the full RAG flow, or the model alone with --no-rag
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/medrag/internal/config"
	"github.com/harper/medrag/internal/models"
	"github.com/harper/medrag/internal/pipeline"
)

var (
	askNoRAG     bool
	askTopK      int
	askMaxTokens int
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a medical question",
		Long: `Ask a medical question against the indexed document corpus.

Retrieves the most relevant chunks, grounds the prompt in them, and
generates an answer with its sources. With --no-rag the model answers
alone, which is useful for comparing grounded and ungrounded answers.

Examples:
  medrag ask "What are the symptoms of type 2 diabetes?"
  medrag ask --top-k 3 "How is asthma diagnosed?"
  medrag ask --no-rag "What is hypertension?"
  medrag ask --format json "What causes migraines?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askNoRAG, "no-rag", false, "Answer without retrieval")
	cmd.Flags().IntVar(&askTopK, "top-k", 0, "Chunks to retrieve (0 uses the configured default)")
	cmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "Generation token limit (0 uses the configured default)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	question := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	p := pipeline.New(cfg)

	var answer models.Answer
	if askNoRAG {
		answer, err = p.QueryWithoutRAG(cmd.Context(), question)
	} else {
		answer, err = p.Query(cmd.Context(), question, askTopK, askMaxTokens)
	}
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	// Format output
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", answer.Answer)

	if !quiet && len(answer.Sources) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSources (%d chunks):\n", answer.ChunksRetrieved)
		for _, source := range answer.Sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", source)
		}
	}

	if verbose && answer.Context != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nRetrieved context:\n%s\n", answer.Context)
	}

	return nil
}

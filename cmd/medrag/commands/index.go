// ABOUTME: CLI command to build the vector index from the document directory
// ABOUTME: Loads a persisted index when present unless --force is given
package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/medrag/internal/config"
	"github.com/harper/medrag/internal/pipeline"
)

var (
	indexForce bool
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector index",
		Long: `Build the vector index from the document directory.

Loads PDF, text, and Markdown documents, splits them into
boundary-aware chunks, embeds each chunk, and persists the index.
When a persisted index already exists it is loaded as-is; use
--force to rebuild from scratch.

Examples:
  medrag index
  medrag index --force`,
		Args: cobra.NoArgs,
		RunE: runIndex,
	}

	cmd.Flags().BoolVar(&indexForce, "force", false, "Rebuild even if a persisted index exists")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if verbose {
		log.Printf("Documents: %s, index: %s, chunk size %d overlap %d",
			cfg.DataDir, cfg.IndexDir, cfg.ChunkSize, cfg.ChunkOverlap)
	}

	p := pipeline.New(cfg)

	count, err := p.BuildIndex(cmd.Context(), indexForce)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if !quiet {
		if count == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No documents found in %s, nothing indexed\n", cfg.DataDir)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Index ready: %d chunks\n", count)
		}
	}

	return nil
}

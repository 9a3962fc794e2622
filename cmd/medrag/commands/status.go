// ABOUTME: CLI command to report index and configuration status
// ABOUTME: Shows persisted index presence, size, and key settings
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/medrag/internal/config"
	"github.com/harper/medrag/internal/index"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		Long: `Show the state of the persisted vector index and key settings.

Reports whether an index exists on disk, how many chunks it holds,
and the configured document and index locations.`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	exists := index.Exists(cfg.IndexDir)
	size := 0
	dimension := 0
	if exists {
		ix, err := index.Load(cfg.IndexDir)
		if err != nil {
			return fmt.Errorf("loading index: %w", err)
		}
		size = ix.Size()
		dimension = ix.Dimension()
	}

	if outputFormat == "json" {
		status := map[string]interface{}{
			"index_exists": exists,
			"index_size":   size,
			"dimension":    dimension,
			"data_dir":     cfg.DataDir,
			"index_dir":    cfg.IndexDir,
		}
		jsonData, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if exists {
		fmt.Fprintf(cmd.OutOrStdout(), "Index:      ready (%d chunks, dimension %d)\n", size, dimension)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Index:      not built (run 'medrag index')\n")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Documents:  %s\n", cfg.DataDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Index dir:  %s\n", cfg.IndexDir)
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Chunking:   size %d, overlap %d\n", cfg.ChunkSize, cfg.ChunkOverlap)
		fmt.Fprintf(cmd.OutOrStdout(), "Models:     chat %s, embedding %s\n", cfg.ChatModel, cfg.EmbeddingModel)
	}

	return nil
}

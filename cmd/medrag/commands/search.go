// ABOUTME: CLI command to run similarity search against the index
// ABOUTME: Shows ranked chunks without generating an answer
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/medrag/internal/config"
	"github.com/harper/medrag/internal/pipeline"
)

var (
	searchLimit int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed chunks",
		Long: `Search the vector index and show the most similar chunks.

Embeds the query and ranks indexed chunks by semantic similarity.
Useful for inspecting what retrieval would feed into generation.

Examples:
  medrag search "type 2 diabetes treatment"
  medrag search --limit 10 "asthma triggers"
  medrag search --format json "hypertension"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	// Validate limit flag
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	p := pipeline.New(cfg)

	results, err := p.Retrieve(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching index: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No chunks found for query: %s\n", query)
		}
		return nil
	}

	// Format output
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		// Table format
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "RANK\tSCORE\tSOURCE\tPREVIEW\n")
		fmt.Fprintf(w, "----\t-----\t------\t-------\n")

		for _, result := range results {
			fmt.Fprintf(w, "%d\t%.3f\t%s\t%s\n",
				result.Rank,
				result.Score,
				truncate(result.Metadata.Source, 30),
				truncate(result.Metadata.Text, 60))
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
		}
	}

	return nil
}

// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for all medrag CLI operations
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███╗   ███╗███████╗██████╗ ██████╗  █████╗  ██████╗
████╗ ████║██╔════╝██╔══██╗██╔══██╗██╔══██╗██╔════╝
██╔████╔██║█████╗  ██║  ██║██████╔╝███████║██║  ███╗
██║╚██╔╝██║██╔══╝  ██║  ██║██╔══██╗██╔══██║██║   ██║
██║ ╚═╝ ██║███████╗██████╔╝██║  ██║██║  ██║╚██████╔╝
╚═╝     ╚═╝╚══════╝╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medrag",
		Short: "Medical question answering with retrieval-augmented generation",
		Long: banner + `
Medical RAG answers medical questions grounded in your own document
corpus. It chunks and embeds documents into a local vector index,
retrieves the most relevant passages for each question, and generates
an answer with its sources.

Get started:
  medrag index              Build the vector index from data/raw
  medrag ask "question"     Ask a question against the index
  medrag search "query"     Inspect what retrieval returns`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, table, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

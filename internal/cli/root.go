// Package cli implements the lunoctl command, a terminal front end to the
// same pipeline the HTTP server runs: ingest files, ask questions, and
// manage the indexed corpus.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lunoai/luno/internal/app"
	"github.com/lunoai/luno/internal/config"
)

var application *app.App

var rootCmd = &cobra.Command{
	Use:   "lunoctl",
	Short: "Index documents and ask questions about them",
	Long: `lunoctl ingests PDF, DOCX, and TXT documents into a vector index and
answers questions grounded in the indexed content.

Example usage:
  lunoctl ingest docs/**/*.pdf notes.txt   # Index documents
  lunoctl ask "What is the project goal?"  # Ask a question
  lunoctl sources                          # List indexed documents`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		var err error
		application, err = app.NewApp(cmd.Context(), cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			application.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

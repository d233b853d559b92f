package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List indexed documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := application.Documents.Sources(cmd.Context())
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Println("No documents indexed.")
			return nil
		}
		for _, s := range sources {
			fmt.Println(s)
		}
		fmt.Printf("%d documents, %d chunks\n", len(sources), application.Documents.Count(cmd.Context()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

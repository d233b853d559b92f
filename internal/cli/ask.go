package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the indexed documents",
	Long: `Ask a question; the answer is grounded in the indexed documents and
cites its sources.

Examples:
  lunoctl ask "What is the goal of the project?"
  lunoctl ask --json "Summarize the roadmap"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	result, err := application.Chat.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}

	if askJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, c := range result.Sources {
			if c.Detail != "" {
				fmt.Printf("  - %s (%s)\n", c.Source, c.Detail)
			} else {
				fmt.Printf("  - %s\n", c.Source)
			}
		}
	}
	return nil
}

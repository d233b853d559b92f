package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [globs...]",
	Short: "Index documents for question answering",
	Long: `Ingest every file matching the given paths or glob patterns. Supported
formats are PDF, DOCX, and TXT; documents fail independently.

Examples:
  lunoctl ingest report.pdf
  lunoctl ingest "docs/**/*.pdf" "notes/*.txt"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	paths, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %v", args)
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Ingesting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Println() }),
	)

	indexed, failed := 0, 0
	var failures []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			_, err = application.Documents.Ingest(cmd.Context(), filepath.Base(path), data)
		}
		if err != nil {
			failed++
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
		} else {
			indexed++
		}
		bar.Add(1)
	}

	fmt.Printf("Indexed %d of %d documents (%d chunks total)\n",
		indexed, len(paths), application.Documents.Count(cmd.Context()))
	for _, f := range failures {
		fmt.Printf("  failed: %s\n", f)
	}
	if indexed == 0 {
		return fmt.Errorf("no documents were indexed")
	}
	return nil
}

// expandGlobs resolves each argument as a doublestar pattern, falling back
// to a literal path when it contains no metacharacters. Matches are
// deduplicated and sorted.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matches == nil {
			matches = []string{pattern}
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

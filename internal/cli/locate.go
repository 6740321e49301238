package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/anchora/internal/locate"
)

var (
	locateThreshold float64
	locateNoFuzzy   bool
)

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate <document> <query>",
	Short: "Find where a quotation occurs in a document",
	Long: `Locate tries an exact search, then a whitespace-insensitive search, then a
fuzzy search scored by edit distance, and prints the first match as JSON.
Offsets are byte offsets into the document; end is exclusive.

Example:
  anchora locate prompt.txt "Greet the user warmly."
  anchora locate prompt.txt "Greet the users warmly" --threshold 0.9
  cat prompt.txt | anchora locate - "Ask for their name."`,
	Args: cobra.ExactArgs(2),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)

	locateCmd.Flags().Float64Var(&locateThreshold, "threshold", 0, "fuzzy similarity threshold (default from config)")
	locateCmd.Flags().BoolVar(&locateNoFuzzy, "no-fuzzy", false, "disable the fuzzy strategy")
}

func runLocate(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}

	doc, err := e.load(context.Background(), args[0])
	if err != nil {
		return err
	}

	opts := locate.OptionsFromConfig(e.cfg.Locate)
	if cmd.Flags().Changed("threshold") {
		if locateThreshold < 0 || locateThreshold > 1 {
			return fmt.Errorf("--threshold must be within [0, 1], got %v", locateThreshold)
		}
		opts.FuzzyThreshold = locateThreshold
	}
	if locateNoFuzzy {
		opts.EnableFuzzy = false
	}

	result := e.locator().Locate(doc.Text, args[1], opts)
	return printJSON(cmd.OutOrStdout(), result)
}

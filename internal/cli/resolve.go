package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ppiankov/anchora/internal/insert"
	"github.com/ppiankov/anchora/internal/locate"
)

var resolveSectionHint string

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <document> <location>",
	Short: "Turn a placement instruction into a byte offset",
	Long: `Resolve parses a location description such as 'after "X"', 'before "X"',
'at the end of "Section"' (English or Spanish) and prints the insertion point.
When the quoted anchor cannot be found, a section named like the anchor or
the --section hint is used instead. Unresolved points have insertion_index -1.

Example:
  anchora resolve prompt.txt 'after "Ask for their name."'
  anchora resolve prompt.txt 'después de "Ask for their name."'
  anchora resolve prompt.txt 'at the end of "Tone"' --section tone`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveSectionHint, "section", "", "section name to fall back to")
}

func runResolve(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}

	doc, err := e.load(context.Background(), args[0])
	if err != nil {
		return err
	}

	resolver := insert.NewResolver(e.sectionParser(),
		insert.WithLocator(e.locator()),
		insert.WithOptions(locate.OptionsFromConfig(e.cfg.Locate)),
		insert.WithLogger(e.logger))

	point := resolver.Resolve(doc.Text, args[1], resolveSectionHint)
	return printJSON(cmd.OutOrStdout(), point)
}

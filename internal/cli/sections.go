package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/overlap"
)

// sectionsCmd represents the sections command
var sectionsCmd = &cobra.Command{
	Use:   "sections <document>",
	Short: "List the tag-delimited sections of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSections,
}

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map <document> <suggestions-file>",
	Short: "Group range-anchored suggestions by the sections they overlap",
	Long: `Map reads suggestions (a JSON/YAML list of {id, start_index, end_index, severity})
and assigns each to every section its range overlaps. Suggestions that overlap
no section are listed under "unmapped".

Example:
  anchora map prompt.txt suggestions.json`,
	Args: cobra.ExactArgs(2),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(mapCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}

	doc, err := e.load(context.Background(), args[0])
	if err != nil {
		return err
	}

	secs := e.sectionParser().ParseSections(doc.Text)
	if secs == nil {
		secs = []model.Section{}
	}
	return printJSON(cmd.OutOrStdout(), secs)
}

type mapOutput struct {
	Groups   []model.SectionSuggestions `json:"groups"`
	Unmapped []model.Suggestion         `json:"unmapped"`
}

func runMap(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}

	var suggestions []model.Suggestion
	if err := decodeFile(args[1], &suggestions); err != nil {
		return err
	}

	doc, err := e.load(context.Background(), args[0])
	if err != nil {
		return err
	}

	secs := e.sectionParser().ParseSections(doc.Text)
	return printJSON(cmd.OutOrStdout(), mapOutput{
		Groups:   overlap.MapSuggestionsToSections(suggestions, secs),
		Unmapped: overlap.GetUnmappedSuggestions(suggestions, secs),
	})
}

package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find features, functions, sensors and SoCs by keyword",
	Long: `Search every catalog by id, name, description, category, vendor and tier.
All words of the query must match. Name matches are listed first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	flagSearchK    int
	flagSearchKind string
)

func init() {
	searchCmd.Flags().IntVarP(&flagSearchK, "k", "k", 20, "Maximum number of results (0 = all)")
	searchCmd.Flags().StringVar(&flagSearchKind, "kind", "", "Only search one catalog: feature, function, sensor or soc")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) error {
	s, err := loadState()
	if err != nil {
		return err
	}
	docs := search.Docs(s)
	if flagSearchKind != "" {
		kind := search.Kind(strings.ToLower(strings.TrimSuffix(flagSearchKind, "s")))
		var kept []search.Doc
		for _, d := range docs {
			if d.Kind == kind {
				kept = append(kept, d)
			}
		}
		docs = kept
	}

	query := strings.Join(args, " ")
	results := search.KeywordSearch(docs, query, flagSearchK)
	printSearchResults(query, results)
	return nil
}

func printSearchResults(query string, results []search.Result) {
	fmt.Printf("\nsocsel search %q\n\n", query)
	fmt.Printf("Results (%d found):\n", len(results))
	if len(results) == 0 {
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t(%s)\n", r.Doc.Kind, r.Doc.ID, r.Doc.Name, r.Why)
	}
	_ = tw.Flush()
}

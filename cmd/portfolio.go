package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/portfolio"
)

const portfolioHelp = `Kinds: socs, sensors, functions, features.
The features kind is the combined list of functions and features, with
features flagged by isFeature.

The format follows the file extension: .json, .yaml/.yml, .toml or .xlsx.
Spreadsheets use one row per entry, flat resources.<axis> columns and
comma-separated mandatoryFunctionIds / mandatorySensorIds.`

var importCmd = &cobra.Command{
	Use:   "import <kind> <file>",
	Short: "Load a catalog from a JSON, YAML, TOML or XLSX file",
	Long: `Import a catalog into the current state.

By default the imported list replaces the stored one. With --mode merge new
ids are appended, identical entries are skipped and entries whose content
differs are reported as conflicts and left alone unless --overwrite is set.

` + portfolioHelp,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <kind> <file>",
	Short: "Write a catalog to a JSON, YAML, TOML or XLSX file",
	Long:  "Export one catalog of the current state.\n\n" + portfolioHelp,
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

var (
	flagImportMode      string
	flagImportOverwrite bool
	flagImportDryRun    bool
)

func init() {
	importCmd.Flags().StringVar(&flagImportMode, "mode", string(portfolio.ModeReplace), "replace or merge")
	importCmd.Flags().BoolVar(&flagImportOverwrite, "overwrite", false, "In merge mode, let conflicting entries replace stored ones")
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Show what would change without saving")
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	kind, err := portfolio.ParseKind(args[0])
	if err != nil {
		return err
	}
	mode, err := portfolio.ParseMode(flagImportMode)
	if err != nil {
		return err
	}
	batch, err := portfolio.Read(args[1], kind)
	if err != nil {
		return err
	}
	opts := portfolio.Options{Mode: mode, Overwrite: flagImportOverwrite}

	var res *portfolio.Result
	apply := func(s *catalog.State) error {
		var err error
		res, err = portfolio.Apply(s, batch, opts)
		return err
	}
	if flagImportDryRun {
		s, err := loadState()
		if err != nil {
			return err
		}
		if err := apply(s); err != nil {
			return err
		}
	} else if _, err := updateState(apply); err != nil {
		return err
	}

	printSection(fmt.Sprintf("Import %s (%s)", kind, mode))
	printImportResult(kind, res)
	if flagImportDryRun {
		printSkip("", "dry run: nothing saved")
	}
	return nil
}

func printImportResult(kind portfolio.Kind, res *portfolio.Result) {
	if kind == portfolio.KindFeatures {
		printInfo("", fmt.Sprintf("file held %d function(s) and %d feature(s)", res.Functions, res.Features))
	}
	for _, issue := range res.Repairs {
		printWarn(issue.ID, "repaired: "+issue.Message)
	}
	if res.Replaced > 0 {
		printOK("", fmt.Sprintf("%d entr%s stored", res.Replaced, plural(res.Replaced, "y", "ies")))
	}
	if res.Added > 0 {
		printOK("", fmt.Sprintf("%d new entr%s added", res.Added, plural(res.Added, "y", "ies")))
	}
	if res.Skipped > 0 {
		printSkip("", fmt.Sprintf("%d identical entr%s skipped", res.Skipped, plural(res.Skipped, "y", "ies")))
	}
	if len(res.Conflicts) == 0 {
		return
	}
	if flagImportOverwrite {
		printBullet("Conflicts (replaced by the incoming entry):")
	} else {
		printBullet("Conflicts (kept the stored entry, use --overwrite to replace):")
	}
	for _, c := range res.Conflicts {
		printWarn(c.Kind+" "+c.ID, fmt.Sprintf("stored %s, incoming %s", shortHash(c.Existing), shortHash(c.Incoming)))
	}
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

func runExport(_ *cobra.Command, args []string) error {
	kind, err := portfolio.ParseKind(args[0])
	if err != nil {
		return err
	}
	s, err := loadState()
	if err != nil {
		return err
	}
	if err := portfolio.Write(args[1], kind, s); err != nil {
		return err
	}
	b, err := portfolio.FromState(s, kind)
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("%d %s written to %s", b.Len(), strings.ToLower(string(kind)), args[1]))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

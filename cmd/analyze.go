package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"report"},
	Short:   "Print the full analysis of the current selection",
	Long: `Resolve the selected features into the sensors and functions they need,
total their load and compare it against every suitable SoC.

Formats: text (default), markdown, json. The default can be changed with
default_format in socsel.yaml.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var (
	flagAnalyzeFormat string
	flagAnalyzeOutput string
)

func init() {
	analyzeCmd.Flags().StringVarP(&flagAnalyzeFormat, "format", "f", "", "Output format: text, markdown or json")
	analyzeCmd.Flags().StringVarP(&flagAnalyzeOutput, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	name := flagAnalyzeFormat
	if name == "" {
		name = cfg.DefaultFormat
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}
	s, err := loadState()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flagAnalyzeOutput != "" {
		f, err := os.Create(flagAnalyzeOutput)
		if err != nil {
			return fmt.Errorf("cannot create %s: %w", flagAnalyzeOutput, err)
		}
		defer f.Close()
		w = f
	}
	if err := report.Render(w, report.Analyze(s), format, report.NewFormatter(cfg.Locale)); err != nil {
		return err
	}
	if flagAnalyzeOutput != "" {
		printOK("", fmt.Sprintf("%s report written to %s", format, flagAnalyzeOutput))
	}
	return nil
}

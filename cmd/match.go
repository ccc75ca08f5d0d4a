package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/report"
	"github.com/kamusis/socsel/internal/resource"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "List the SoCs that can host the current selection, smallest first",
	Args:  cobra.NoArgs,
	RunE:  runMatch,
}

var flagMatchAll bool

func init() {
	matchCmd.Flags().BoolVarP(&flagMatchAll, "all", "a", false, "Also list SoCs that fall short, with the axes they miss")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	s, err := loadState()
	if err != nil {
		return err
	}
	a := report.Analyze(s)
	f := report.NewFormatter(cfg.Locale)

	printSection("SoC Recommendations")
	if !a.HasLoad() {
		fmt.Println("\n  SoC recommendations will appear here once features are selected.")
		return nil
	}

	if len(a.Match.Suitable) == 0 {
		printErr("", "No Suitable SoC Found")
	} else {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "\n  #\tID\tNAME\tVENDOR\tTIER\tSCORE\t")
		for i, soc := range a.Match.Suitable {
			mark := ""
			if a.IsBestFit(soc) {
				mark = "★ Best Fit"
			}
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, soc.ID, soc.Name, soc.Vendor, soc.Tier,
				f.Number(soc.Resources.Score()), mark)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !flagMatchAll {
		return nil
	}
	printBullet("Not suitable:")
	var n int
	for _, c := range a.Candidates {
		if c.Suitable {
			continue
		}
		n++
		misses := make([]string, 0, len(c.Shortfalls))
		for _, ax := range c.Shortfalls {
			misses = append(misses, fmt.Sprintf("%s %s/%s", ax.Name(),
				f.Compared(ax, c.SoC.Resources.Get(ax)), f.Compared(ax, a.Requirements.TotalResources.Get(ax))))
		}
		printMiss(c.SoC.ID, fmt.Sprintf("%s: short on %s", c.SoC.Name, strings.Join(misses, ", ")))
	}
	if n == 0 {
		printSkip("", "every SoC in the portfolio is suitable")
	}
	return nil
}

// socUtilization prints the required/available table for one SoC.
func socUtilization(req resource.Vector, avail resource.Vector) error {
	return report.UtilizationTable(os.Stdout, req, avail, report.NewFormatter(cfg.Locale), "  ")
}

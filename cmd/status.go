package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/report"
	"github.com/kamusis/socsel/internal/resource"
	"github.com/kamusis/socsel/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current selection, its total load and the best-fit SoC",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	s, err := loadState()
	if err != nil {
		return err
	}
	a := report.Analyze(s)
	f := report.NewFormatter(cfg.Locale)

	printSection("socsel status")
	if store.Exists(cfg.StatePath) {
		printOK("", fmt.Sprintf("state: %s", cfg.StatePath))
	} else {
		printMiss("", fmt.Sprintf("state: %s (not written yet, using defaults)", cfg.StatePath))
	}
	printInfo("", fmt.Sprintf("catalog: %d features / %d functions / %d sensors / %d SoCs",
		len(s.Features), len(s.Functions), len(s.Sensors), len(s.SoCs)))

	printBullet("Selected features:")
	if len(a.Requirements.Features) == 0 {
		printSkip("", "none (run 'socsel feature select <id>')")
	}
	for _, feat := range a.Requirements.Features {
		printOK(feat.ID, feat.Name)
	}
	for _, id := range s.Selection.IDs() {
		if _, ok := s.FeatureByID(id); !ok {
			printWarn(id, "selected but not in the feature catalog")
		}
	}

	if !a.HasLoad() {
		return nil
	}

	printBullet("Total requirement:")
	parts := make([]string, 0, len(resource.Axes()))
	for _, ax := range resource.Axes() {
		parts = append(parts, fmt.Sprintf("%s %s", ax.Name(), f.Value(ax, a.Requirements.TotalResources.Get(ax))))
	}
	fmt.Printf("  %s\n", strings.Join(parts, " · "))

	printBullet("Best fit:")
	if a.Match.BestFit == nil {
		printErr("", "No Suitable SoC Found")
		return nil
	}
	printOK(a.Match.BestFit.ID, fmt.Sprintf("%s (%s, %s) · %d suitable",
		a.Match.BestFit.Name, a.Match.BestFit.Vendor, a.Match.BestFit.Tier, len(a.Match.Suitable)))
	return nil
}

package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/matcher"
	"github.com/kamusis/socsel/internal/report"
	"github.com/kamusis/socsel/internal/resolver"
	"github.com/kamusis/socsel/internal/resource"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show the details of a feature, function, sensor or SoC",
	Long: `Display a formatted summary of one catalog entry.

Features show what they pull in and what they cost on their own.
Functions and sensors show which features depend on them.
SoCs show their utilisation against the current selection.

Example:
  socsel inspect feat_aeb
  socsel inspect soc_mid`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	id := args[0]
	s, err := loadState()
	if err != nil {
		return err
	}
	f := report.NewFormatter(cfg.Locale)

	if feat, ok := s.FeatureByID(id); ok {
		inspectFeature(s, feat, f)
		return nil
	}
	if fn, ok := s.FunctionByID(id); ok {
		inspectComponent(s, "Function", fn.Component, f, func(feat catalog.Feature) bool {
			return slices.Contains(feat.MandatoryFunctionIDs, id)
		})
		return nil
	}
	if sn, ok := s.SensorByID(id); ok {
		inspectComponent(s, "Sensor", sn.Component, f, func(feat catalog.Feature) bool {
			return slices.Contains(feat.MandatorySensorIDs, id)
		})
		return nil
	}
	if soc, ok := s.SoCByID(id); ok {
		return inspectSoC(s, soc, f)
	}
	return fmt.Errorf("%q: %w in any catalog\nRun 'socsel search %s' to look it up by name.", id, catalog.ErrNotFound, id)
}

func inspectFeature(s *catalog.State, feat catalog.Feature, f *report.Formatter) {
	printSection("Feature: " + feat.Name)
	fmt.Printf("  ID:          %s\n", feat.ID)
	fmt.Printf("  Category:    %s\n", feat.Category)
	fmt.Printf("  Selected:    %v\n", s.Selection.Has(feat.ID))
	if feat.Description != "" {
		fmt.Printf("  Description: %s\n", feat.Description)
	}

	printBullet("Mandatory functions:")
	if len(feat.MandatoryFunctionIDs) == 0 {
		printSkip("", "none")
	}
	for _, id := range feat.MandatoryFunctionIDs {
		if fn, ok := s.FunctionByID(id); ok {
			printOK(id, fn.Name)
		} else {
			printMiss(id, "not in the function catalog (ignored)")
		}
	}

	printBullet("Mandatory sensors:")
	if len(feat.MandatorySensorIDs) == 0 {
		printSkip("", "none")
	}
	for _, id := range feat.MandatorySensorIDs {
		if sn, ok := s.SensorByID(id); ok {
			printOK(id, sn.Name)
		} else {
			printMiss(id, "not in the sensor catalog (ignored)")
		}
	}

	req := resolver.Resolve(catalog.NewSelection(feat.ID), s.Features, s.Functions, s.Sensors)
	printBullet("Cost on its own:")
	printVector(req.TotalResources, f)
	if best := matcher.Match(req.TotalResources, s.SoCs).BestFit; best != nil {
		printInfo("", fmt.Sprintf("smallest SoC on its own: %s (%s)", best.Name, best.ID))
	}
}

func inspectComponent(s *catalog.State, kind string, c catalog.Component, f *report.Formatter, uses func(catalog.Feature) bool) {
	printSection(kind + ": " + c.Name)
	fmt.Printf("  ID: %s\n", c.ID)

	printBullet("Resources:")
	printVector(c.Resources, f)

	printBullet("Required by:")
	var n int
	for _, feat := range s.Features {
		if uses(feat) {
			n++
			printOK(feat.ID, feat.Name)
		}
	}
	if n == 0 {
		printSkip("", "no feature")
	}
}

func inspectSoC(s *catalog.State, soc catalog.SoC, f *report.Formatter) error {
	printSection("SoC: " + soc.Name)
	fmt.Printf("  ID:     %s\n", soc.ID)
	fmt.Printf("  Vendor: %s\n", soc.Vendor)
	fmt.Printf("  Tier:   %s\n", soc.Tier)
	fmt.Printf("  Score:  %s\n", f.Number(matcher.Score(soc)))

	printBullet("Capacity:")
	printVector(soc.Resources, f)

	a := report.Analyze(s)
	if !a.HasLoad() {
		printBullet("Utilisation:")
		printSkip("", "no features selected")
		return nil
	}
	printBullet("Utilisation against the current selection:")
	if err := socUtilization(a.Requirements.TotalResources, soc.Resources); err != nil {
		return err
	}
	switch short := matcher.Shortfalls(a.Requirements.TotalResources, soc); {
	case a.IsBestFit(soc):
		printOK("", "best fit for the current selection")
	case len(short) == 0:
		printOK("", "suitable")
	default:
		names := make([]string, len(short))
		for i, ax := range short {
			names[i] = ax.Name()
		}
		printErr("", "not suitable: short on "+strings.Join(names, ", "))
	}
	return nil
}

func printVector(v resource.Vector, f *report.Formatter) {
	for _, ax := range resource.Axes() {
		fmt.Printf("  %-20s %s\n", ax.Label(), f.Value(ax, v.Get(ax)))
	}
}

package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/catalog"
)

var featureCmd = &cobra.Command{
	Use:     "feature",
	Aliases: []string{"features"},
	Short:   "List, select and edit ADAS features",
}

var featureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List features by category; selected ones are marked [x]",
	Args:  cobra.NoArgs,
	RunE:  runFeatureList,
}

var featureSelectCmd = &cobra.Command{
	Use:   "select <id>...",
	Short: "Add features to the selection",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFeatureSelect,
}

var featureDeselectCmd = &cobra.Command{
	Use:   "deselect <id>...",
	Short: "Remove features from the selection",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFeatureDeselect,
}

var featureToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip the selection of a feature",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeatureToggle,
}

var featureClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Deselect every feature",
	Args:  cobra.NoArgs,
	RunE:  runFeatureClear,
}

var featureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a feature",
	Long: `Create a feature. Its cost is the sum of the functions and sensors it
mandates; a feature never carries resources of its own.

Example:
  socsel feature add "Highway Pilot" --category Driving \
    --functions func_acc_logic,func_lka_logic --sensors sensor_radar_gen4`,
	Args: cobra.ExactArgs(1),
	RunE: runFeatureAdd,
}

var featureEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a feature; only the flags given are applied",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeatureEdit,
}

var featureRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a feature and drop it from the selection",
	Args:    cobra.ExactArgs(1),
	RunE:    runFeatureRemove,
}

var (
	flagFeatureID          string
	flagFeatureName        string
	flagFeatureCategory    string
	flagFeatureDescription string
	flagFeatureFunctions   []string
	flagFeatureSensors     []string
)

func init() {
	for _, c := range []*cobra.Command{featureAddCmd, featureEditCmd} {
		c.Flags().StringVar(&flagFeatureCategory, "category", "", "Category: Driving or Parking")
		c.Flags().StringVar(&flagFeatureDescription, "description", "", "Description")
		c.Flags().StringSliceVar(&flagFeatureFunctions, "functions", nil, "Mandatory function ids (comma-separated)")
		c.Flags().StringSliceVar(&flagFeatureSensors, "sensors", nil, "Mandatory sensor ids (comma-separated)")
	}
	featureAddCmd.Flags().StringVar(&flagFeatureID, "id", "", "Explicit id (default: generated)")
	featureEditCmd.Flags().StringVar(&flagFeatureName, "name", "", "New name")

	featureCmd.AddCommand(featureListCmd, featureSelectCmd, featureDeselectCmd, featureToggleCmd,
		featureClearCmd, featureAddCmd, featureEditCmd, featureRemoveCmd)
	rootCmd.AddCommand(featureCmd)
}

func runFeatureList(_ *cobra.Command, _ []string) error {
	s, err := loadState()
	if err != nil {
		return err
	}
	listed := map[string]bool{}
	for _, cat := range catalog.Categories() {
		feats := s.FeaturesByCategory(cat)
		if len(feats) == 0 {
			continue
		}
		printBullet(string(cat))
		printFeatureTable(s, feats)
		for _, f := range feats {
			listed[f.ID] = true
		}
	}
	var other []catalog.Feature
	for _, f := range s.Features {
		if !listed[f.ID] {
			other = append(other, f)
		}
	}
	if len(other) > 0 {
		printBullet("Uncategorised")
		printFeatureTable(s, other)
	}
	if len(s.Features) == 0 {
		printMiss("", "no features in the catalog")
	}
	return nil
}

func printFeatureTable(s *catalog.State, feats []catalog.Feature) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, f := range feats {
		mark := "[ ]"
		if s.Selection.Has(f.ID) {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\tfunctions: %s\tsensors: %s\n", mark, f.ID, f.Name,
			orDash(strings.Join(f.MandatoryFunctionIDs, ",")), orDash(strings.Join(f.MandatorySensorIDs, ",")))
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runFeatureSelect(_ *cobra.Command, args []string) error {
	ids := parseIDs(args)
	if _, err := updateState(func(s *catalog.State) error {
		for _, id := range ids {
			if err := s.Select(id); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	for _, id := range ids {
		printOK(id, "selected")
	}
	return nil
}

func runFeatureDeselect(_ *cobra.Command, args []string) error {
	ids := parseIDs(args)
	var missing []string
	if _, err := updateState(func(s *catalog.State) error {
		for _, id := range ids {
			if !s.Selection.Has(id) {
				missing = append(missing, id)
			}
			s.Deselect(id)
		}
		return nil
	}); err != nil {
		return err
	}
	for _, id := range ids {
		if slices.Contains(missing, id) {
			printSkip(id, "was not selected")
		} else {
			printInfo(id, "deselected")
		}
	}
	return nil
}

func runFeatureToggle(_ *cobra.Command, args []string) error {
	id := args[0]
	var selected bool
	if _, err := updateState(func(s *catalog.State) error {
		var err error
		selected, err = s.Toggle(id)
		return err
	}); err != nil {
		return err
	}
	if selected {
		printOK(id, "selected")
	} else {
		printInfo(id, "deselected")
	}
	return nil
}

func runFeatureClear(_ *cobra.Command, _ []string) error {
	var n int
	if _, err := updateState(func(s *catalog.State) error {
		n = s.Selection.Len()
		s.ClearSelection()
		return nil
	}); err != nil {
		return err
	}
	printInfo("", fmt.Sprintf("%d feature(s) deselected", n))
	return nil
}

func runFeatureAdd(_ *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("feature name must not be empty")
	}
	cat := catalog.Driving
	if flagFeatureCategory != "" {
		c, err := catalog.ParseCategory(flagFeatureCategory)
		if err != nil {
			return err
		}
		cat = c
	}
	meta := catalog.FeatureMeta{
		Description:          flagFeatureDescription,
		Category:             cat,
		MandatoryFunctionIDs: parseIDs(flagFeatureFunctions),
		MandatorySensorIDs:   parseIDs(flagFeatureSensors),
	}

	var added catalog.Feature
	if _, err := updateState(func(s *catalog.State) error {
		warnUnknownRefs(s, meta)
		var err error
		added, err = s.InsertFeature(catalog.NewFeature(flagFeatureID, name, meta))
		return err
	}); err != nil {
		return err
	}
	printOK(added.ID, fmt.Sprintf("feature %q added (%s)", added.Name, added.Category))
	return nil
}

func runFeatureEdit(cmd *cobra.Command, args []string) error {
	id := args[0]
	flags := cmd.Flags()
	var updated catalog.Feature
	if _, err := updateState(func(s *catalog.State) error {
		f, ok := s.FeatureByID(id)
		if !ok {
			return fmt.Errorf("feature %s: %w", id, catalog.ErrNotFound)
		}
		if flags.Changed("name") {
			f.Name = strings.TrimSpace(flagFeatureName)
		}
		if flags.Changed("description") {
			f.Description = flagFeatureDescription
		}
		if flags.Changed("category") {
			c, err := catalog.ParseCategory(flagFeatureCategory)
			if err != nil {
				return err
			}
			f.Category = c
		}
		if flags.Changed("functions") {
			f.MandatoryFunctionIDs = parseIDs(flagFeatureFunctions)
		}
		if flags.Changed("sensors") {
			f.MandatorySensorIDs = parseIDs(flagFeatureSensors)
		}
		warnUnknownRefs(s, f.FeatureMeta)
		updated = f
		return s.UpdateFeature(f)
	}); err != nil {
		return err
	}
	printOK(updated.ID, "feature updated")
	return nil
}

func runFeatureRemove(_ *cobra.Command, args []string) error {
	id := args[0]
	if _, err := updateState(func(s *catalog.State) error {
		return s.RemoveFeature(id)
	}); err != nil {
		return err
	}
	printOK(id, "feature removed")
	return nil
}

// warnUnknownRefs flags dependency ids that do not resolve. They are kept;
// the resolver skips them until the component exists.
func warnUnknownRefs(s *catalog.State, meta catalog.FeatureMeta) {
	for _, id := range meta.MandatoryFunctionIDs {
		if _, ok := s.FunctionByID(id); !ok {
			printWarn(id, "unknown function; it will be ignored until it exists")
		}
	}
	for _, id := range meta.MandatorySensorIDs {
		if _, ok := s.SensorByID(id); !ok {
			printWarn(id, "unknown sensor; it will be ignored until it exists")
		}
	}
}

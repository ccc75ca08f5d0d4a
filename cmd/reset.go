package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default catalog and clear the selection",
	Long: `Overwrite the state file with the default catalog.

With --selection only the feature selection is cleared and every catalog
edit is kept.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var flagResetSelection bool

func init() {
	resetCmd.Flags().BoolVar(&flagResetSelection, "selection", false, "Only clear the feature selection")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	if flagResetSelection {
		if _, err := updateState(func(s *catalog.State) error {
			s.ClearSelection()
			return nil
		}); err != nil {
			return err
		}
		printInfo("", "selection cleared")
		return nil
	}

	// Reset must work on a corrupt file, so it skips Update's load step.
	err := store.WithLock(cfg.StatePath, store.DefaultLockTimeout, func() error {
		_, err := store.Reset(cfg.StatePath)
		return err
	})
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("State reset to defaults: %s", cfg.StatePath))
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/store"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Save or restore the whole state (catalogs and selection) as one JSON file",
}

var sessionSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write the current catalogs and selection to a session file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionSave,
}

var sessionLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Replace the current state with a session file",
	Long: `Replace every catalog and the selection with the content of a session file.
The file must carry adasFunctions, sensors, soCs and selectedFeatureIds.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionLoad,
}

func init() {
	sessionCmd.AddCommand(sessionSaveCmd, sessionLoadCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionSave(_ *cobra.Command, args []string) error {
	s, err := loadState()
	if err != nil {
		return err
	}
	if err := store.Export(args[0], s); err != nil {
		return err
	}
	printOK("", fmt.Sprintf("session saved to %s (%d selected feature(s))", args[0], s.Selection.Len()))
	return nil
}

func runSessionLoad(_ *cobra.Command, args []string) error {
	in, err := store.Import(args[0])
	if err != nil {
		return err
	}
	// The stored state is replaced wholesale, so it is never read.
	if err := store.WithLock(cfg.StatePath, store.DefaultLockTimeout, func() error {
		return store.Save(cfg.StatePath, in)
	}); err != nil {
		return err
	}
	printOK("", fmt.Sprintf("session loaded from %s", args[0]))
	printInfo("", fmt.Sprintf("%d features / %d functions / %d sensors / %d SoCs, %d selected",
		len(in.Features), len(in.Functions), len(in.Sensors), len(in.SoCs), in.Selection.Len()))
	return nil
}

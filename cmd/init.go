package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/config"
	"github.com/kamusis/socsel/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.socsel with a config file and the default catalog",
	Long: `Initialise the socsel home directory.

Writes socsel.yaml and a .env template when they are missing, and seeds the
state file with the default sensors, functions, features and SoCs. Existing
files are left alone unless --force is given, which resets the state.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var flagInitForce bool

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing state file with the defaults")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Base directory ─────────────────────────────────────────────────────
	baseDir, err := config.BaseDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", baseDir, err)
	}
	printOK("", fmt.Sprintf("socsel directory ready: %s", baseDir))

	// ── 2. socsel.yaml ────────────────────────────────────────────────────────
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		def, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if err := config.Save(def); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	// ── 3. .env template ──────────────────────────────────────────────────────
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	if err := config.EnsureDotEnvTemplate(); err != nil {
		printWarn("", fmt.Sprintf("cannot write %s: %v", envPath, err))
	} else {
		printOK("", fmt.Sprintf("Overrides file: %s", envPath))
	}

	// ── 4. State ──────────────────────────────────────────────────────────────
	statePath := cfg.StatePath
	if store.Exists(statePath) && !flagInitForce {
		printSkip("", fmt.Sprintf("State already exists: %s (use --force to reset)", statePath))
	} else {
		s, err := store.Reset(statePath)
		if err != nil {
			return err
		}
		printOK("", fmt.Sprintf("State seeded: %s (%d features, %d functions, %d sensors, %d SoCs)",
			statePath, len(s.Features), len(s.Functions), len(s.Sensors), len(s.SoCs)))
	}

	fmt.Println("\nNext: 'socsel feature list' to see what can be selected.")
	return nil
}

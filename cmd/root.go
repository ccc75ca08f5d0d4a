package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/config"
	"github.com/kamusis/socsel/internal/logging"
	"github.com/kamusis/socsel/internal/store"
)

var (
	flagHome     string
	flagState    string
	flagVerbose  bool
	flagLogLevel string
)

// cfg is the effective configuration, loaded before every command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "socsel",
	Short:        "socsel: pick the smallest SoC that can host a set of ADAS features",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `socsel resolves a selection of ADAS features into the functions and sensors
they need, sums their resource load and lists the SoCs that can carry it.

Catalogs and the current selection live in ~/.socsel/state.json.`,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagHome, "home", "", "Base directory for config and state (default ~/.socsel, env SOCSEL_HOME)")
	pf.StringVar(&flagState, "state", "", "State file to use instead of the configured one")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	if flagHome != "" {
		if err := os.Setenv(config.HomeEnv, flagHome); err != nil {
			return err
		}
	}
	c, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	if flagState != "" {
		if c.StatePath, err = config.ExpandPath(flagState); err != nil {
			return err
		}
	}
	level := c.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagVerbose {
		level = "debug"
	}
	logging.Setup(level, c.LogFormat, nil)
	slog.Debug("config loaded", "state", c.StatePath, "level", level)
	cfg = c
	return nil
}

// loadState reads the session state, hinting at a reset when it is corrupt.
func loadState() (*catalog.State, error) {
	s, err := store.Load(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("%w\nRun 'socsel reset' to start over from the default catalog.", err)
	}
	return s, nil
}

// updateState applies fn to the state under the store lock.
func updateState(fn func(*catalog.State) error) (*catalog.State, error) {
	return store.Update(cfg.StatePath, store.DefaultLockTimeout, fn)
}

// parseIDs splits comma-separated id lists and drops blanks.
func parseIDs(values []string) []string {
	var out []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

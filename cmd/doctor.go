package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/config"
	"github.com/kamusis/socsel/internal/logging"
	"github.com/kamusis/socsel/internal/report"
	"github.com/kamusis/socsel/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, state file and catalog consistency",
	Long: `Check that socsel's configuration and state are usable and that the
catalogs are consistent. Run this command when something seems wrong.`,
	RunE: runDoctor,
}

var doctorFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Repair what doctor can repair",
	Long: `Fix detected issues in the socsel state.

Currently fixes:
  - negative resource values (clamped to 0) and blank ids (generated)
  - selected ids that are not features (deselected)
  - leftover .bak / .tmp files next to the state file

Run 'socsel doctor' first to see what will be fixed.`,
	RunE: runDoctorFix,
}

func init() {
	doctorCmd.AddCommand(doctorFixCmd)
	rootCmd.AddCommand(doctorCmd)
}

func runDoctorFix(_ *cobra.Command, _ []string) error {
	printSection("socsel doctor fix")

	fmt.Fprintln(stdout, "\n[ Catalog ]")
	var repairs []catalog.Issue
	var dropped []string
	err := store.WithLock(cfg.StatePath, store.DefaultLockTimeout, func() error {
		s, err := store.LoadRaw(cfg.StatePath)
		if err != nil {
			return fmt.Errorf("%w\nRun 'socsel reset' to start over from the default catalog.", err)
		}
		repairs = catalog.Sanitize(s)
		dropped = s.PruneSelection()
		if len(repairs) == 0 && len(dropped) == 0 {
			return nil
		}
		return store.Save(cfg.StatePath, s)
	})
	if err != nil {
		return err
	}
	for _, r := range repairs {
		printOK(r.Kind+" "+r.ID, r.Message)
	}
	for _, id := range dropped {
		printOK(id, "deselected (not a feature)")
	}
	if len(repairs) == 0 && len(dropped) == 0 {
		printOK("", "nothing to repair")
	}

	fmt.Fprintln(stdout, "\n[ Leftover files ]")
	leftovers := findLeftovers(cfg.StatePath)
	if len(leftovers) == 0 {
		printOK("", "no leftover files found")
		return nil
	}
	var failed int
	for _, p := range leftovers {
		if err := os.Remove(p); err != nil {
			printErr("", fmt.Sprintf("cannot delete %s: %v", p, err))
			failed++
		} else {
			printOK("", fmt.Sprintf("deleted %s", filepath.Base(p)))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be deleted", failed)
	}
	return nil
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("socsel doctor")
	fmt.Fprintln(stdout)

	// ── Check 1: config file ──────────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ socsel.yaml ]")
	cfgPath, err := config.ConfigPath()
	if err != nil {
		failD("cannot determine config path: %v", err)
	} else if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		printWarn("", fmt.Sprintf("%s not found, using defaults (run 'socsel init' to write one)", cfgPath))
	} else if _, loadErr := config.Load(); loadErr != nil {
		failD("cannot parse config: %v", loadErr)
	} else {
		printOK("", fmt.Sprintf("valid YAML: %s", cfgPath))
	}
	if lvl := strings.ToLower(cfg.LogLevel); lvl != "" && logging.ParseLevel(lvl).String() != strings.ToUpper(lvl) {
		printWarn("", fmt.Sprintf("unknown log_level %q, falling back to warn", cfg.LogLevel))
	}
	if _, err := report.ParseFormat(cfg.DefaultFormat); err != nil {
		failD("default_format: %v", err)
	}
	fmt.Fprintln(stdout)

	// ── Check 2: dotenv overrides ─────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ .env ]")
	if env, err := config.LoadDotEnv(); err != nil {
		failD("%v", err)
	} else {
		var set []string
		for k, v := range env {
			if strings.HasPrefix(k, "SOCSEL_") && strings.TrimSpace(v) != "" {
				set = append(set, k)
			}
		}
		if len(set) == 0 {
			printSkip("", "no overrides set")
		} else {
			printOK("", fmt.Sprintf("%d override(s): %s", len(set), strings.Join(set, ", ")))
		}
	}
	fmt.Fprintln(stdout)

	// ── Check 3: state file ───────────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ State file ]")
	var s *catalog.State
	if !store.Exists(cfg.StatePath) {
		printWarn("", fmt.Sprintf("%s not written yet, defaults in use", cfg.StatePath))
		s = catalog.Defaults()
	} else if s, err = store.LoadRaw(cfg.StatePath); err != nil {
		failD("%v\n     Run 'socsel reset' to start over.", err)
	} else {
		printOK("", fmt.Sprintf("readable: %s", cfg.StatePath))
	}
	fmt.Fprintln(stdout)

	// ── Check 4: state lock ───────────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ State lock ]")
	if l := flock.New(store.LockPath(cfg.StatePath)); store.Exists(cfg.StatePath) {
		if locked, err := l.TryRLock(); err != nil {
			printWarn("", fmt.Sprintf("cannot probe lock: %v", err))
		} else if !locked {
			printWarn("", "state is locked by another socsel process")
		} else {
			_ = l.Unlock()
			printOK("", "free")
		}
	} else {
		printSkip("", "no state file yet")
	}
	fmt.Fprintln(stdout)

	// ── Check 5: catalog consistency ──────────────────────────────────────────
	fmt.Fprintln(stdout, "[ Catalog ]")
	if s != nil {
		issues := catalog.Validate(s)
		for _, i := range issues {
			if i.Severity == catalog.SeverityError {
				failD("%s", i)
			} else {
				printWarn("", i.String())
			}
		}
		if len(issues) == 0 {
			printOK("", fmt.Sprintf("%d features / %d functions / %d sensors / %d SoCs, no issues",
				len(s.Features), len(s.Functions), len(s.Sensors), len(s.SoCs)))
		} else if catalog.HasErrors(issues) {
			fmt.Fprintln(stdout, "     Run 'socsel doctor fix' to clamp negative values and fill missing ids.")
		}
	} else {
		printWarn("", "skipped (state not loaded)")
	}
	fmt.Fprintln(stdout)

	// ── Check 6: leftovers from interrupted writes ────────────────────────────
	fmt.Fprintln(stdout, "[ Leftover files ]")
	if leftovers := findLeftovers(cfg.StatePath); len(leftovers) == 0 {
		printOK("", "none")
	} else {
		for _, p := range leftovers {
			printWarn("", p)
		}
		fmt.Fprintln(stdout, "     Run 'socsel doctor fix' to remove them.")
	}
	fmt.Fprintln(stdout)

	// ── Summary ───────────────────────────────────────────────────────────────
	fmt.Fprintln(stdout, "===================")
	if allOK {
		fmt.Fprintln(stdout, "✓  All checks passed. socsel is ready to use.")
	} else {
		fmt.Fprintln(stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// findLeftovers returns the backup and temp files an interrupted save can
// leave next to statePath.
func findLeftovers(statePath string) []string {
	var found []string
	if store.Exists(statePath + ".bak") {
		found = append(found, statePath+".bak")
	}
	tmps, _ := filepath.Glob(filepath.Join(filepath.Dir(statePath), "."+filepath.Base(statePath)+"-*.tmp"))
	return append(found, tmps...)
}

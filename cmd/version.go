package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/resource"
)

// Set at build time with -ldflags "-X github.com/kamusis/socsel/cmd.version=...".
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var flagVersionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show socsel version, build and catalog information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&flagVersionShort, "short", false, "Print the version number only")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	if flagVersionShort {
		fmt.Fprintln(stdout, version)
		return nil
	}
	d := catalog.Defaults()
	axes := make([]string, 0, len(resource.Axes()))
	for _, ax := range resource.Axes() {
		axes = append(axes, ax.Key())
	}

	fmt.Fprintf(stdout, "socsel %s (%s, built %s)\n", version, orNA(commit), orNA(buildDate))
	fmt.Fprintf(stdout, "  Go:               %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(stdout, "  Resource axes:    %s\n", strings.Join(axes, ", "))
	fmt.Fprintf(stdout, "  Built-in catalog: %d features / %d functions / %d sensors / %d SoCs\n",
		len(d.Features), len(d.Functions), len(d.Sensors), len(d.SoCs))
	if cfg != nil {
		fmt.Fprintf(stdout, "  State file:       %s\n", cfg.StatePath)
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/matcher"
	"github.com/kamusis/socsel/internal/report"
)

var socCmd = &cobra.Command{
	Use:     "soc",
	Aliases: []string{"socs"},
	Short:   "List and edit the SoC portfolio",
}

var socListCmd = &cobra.Command{
	Use:   "list",
	Short: "List SoCs with their capacity",
	Args:  cobra.NoArgs,
	RunE:  runSoCList,
}

var socSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Create or update an SoC; only the flags given are applied",
	Example: `  socsel soc set soc_eta --name "SoC 006" --vendor Eta --tier Mid-range \
    --kdmips 180 --tops 24 --isp 4500 --dewarp 2500 --gpu 500 --dram-bw 25`,
	Args: cobra.ExactArgs(1),
	RunE: runSoCSet,
}

var socRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an SoC",
	Args:    cobra.ExactArgs(1),
	RunE:    runSoCRemove,
}

var (
	flagSoCName   string
	flagSoCVendor string
	flagSoCTier   string
	socVector     = newVectorFlags()
)

func init() {
	socSetCmd.Flags().StringVar(&flagSoCName, "name", "", "Display name (default: the id)")
	socSetCmd.Flags().StringVar(&flagSoCVendor, "vendor", "", "Vendor")
	socSetCmd.Flags().StringVar(&flagSoCTier, "tier", "", "Tier: Entry, Mid-range or High-performance")
	socVector.register(socSetCmd.Flags())

	socCmd.AddCommand(socListCmd, socSetCmd, socRemoveCmd)
	rootCmd.AddCommand(socCmd)
}

func runSoCList(_ *cobra.Command, _ []string) error {
	s, err := loadState()
	if err != nil {
		return err
	}
	if len(s.SoCs) == 0 {
		printMiss("", "no SoCs in the portfolio")
		return nil
	}
	f := report.NewFormatter(cfg.Locale)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVENDOR\tTIER\t"+axisHeader()+"\tSCORE")
	for _, soc := range s.SoCs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", soc.ID, soc.Name, soc.Vendor, soc.Tier,
			axisCells(f, soc.Resources), f.Number(matcher.Score(soc)))
	}
	return tw.Flush()
}

func runSoCSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	var stored catalog.SoC
	var replaced bool
	if _, err := updateState(func(s *catalog.State) error {
		soc, ok := s.SoCByID(args[0])
		if !ok {
			soc = catalog.SoC{ID: args[0], Name: args[0], Tier: catalog.TierEntry}
		}
		if flags.Changed("name") {
			soc.Name = strings.TrimSpace(flagSoCName)
		}
		if flags.Changed("vendor") {
			soc.Vendor = strings.TrimSpace(flagSoCVendor)
		}
		if flags.Changed("tier") {
			t, err := catalog.ParseTier(flagSoCTier)
			if err != nil {
				return err
			}
			soc.Tier = t
		}
		if err := socVector.apply(flags, &soc.Resources); err != nil {
			return err
		}
		stored, replaced = s.UpsertSoC(soc)
		return nil
	}); err != nil {
		return err
	}
	verb := "added"
	if replaced {
		verb = "updated"
	}
	printOK(stored.ID, "soc "+verb)
	return nil
}

func runSoCRemove(_ *cobra.Command, args []string) error {
	if _, err := updateState(func(s *catalog.State) error {
		return s.RemoveSoC(args[0])
	}); err != nil {
		return err
	}
	printOK(args[0], "soc removed")
	return nil
}

package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/report"
	"github.com/kamusis/socsel/internal/resource"
)

// Functions and sensors share one command shape; only the catalog differs.

type componentStore struct {
	kind   string
	list   func(*catalog.State) []catalog.Component
	get    func(*catalog.State, string) (catalog.Component, bool)
	upsert func(*catalog.State, catalog.Component) (catalog.Component, bool)
	remove func(*catalog.State, string) error
}

var functionStore = componentStore{
	kind: "function",
	list: func(s *catalog.State) []catalog.Component {
		out := make([]catalog.Component, len(s.Functions))
		for i, f := range s.Functions {
			out[i] = f.Component
		}
		return out
	},
	get: func(s *catalog.State, id string) (catalog.Component, bool) {
		f, ok := s.FunctionByID(id)
		return f.Component, ok
	},
	upsert: func(s *catalog.State, c catalog.Component) (catalog.Component, bool) {
		f, replaced := s.UpsertFunction(catalog.Function{Component: c})
		return f.Component, replaced
	},
	remove: func(s *catalog.State, id string) error { return s.RemoveFunction(id) },
}

var sensorStore = componentStore{
	kind: "sensor",
	list: func(s *catalog.State) []catalog.Component {
		out := make([]catalog.Component, len(s.Sensors))
		for i, sn := range s.Sensors {
			out[i] = sn.Component
		}
		return out
	},
	get: func(s *catalog.State, id string) (catalog.Component, bool) {
		sn, ok := s.SensorByID(id)
		return sn.Component, ok
	},
	upsert: func(s *catalog.State, c catalog.Component) (catalog.Component, bool) {
		sn, replaced := s.UpsertSensor(catalog.Sensor{Component: c})
		return sn.Component, replaced
	},
	remove: func(s *catalog.State, id string) error { return s.RemoveSensor(id) },
}

func init() {
	rootCmd.AddCommand(newComponentCmd(functionStore, []string{"functions", "fn"}))
	rootCmd.AddCommand(newComponentCmd(sensorStore, []string{"sensors"}))
}

func newComponentCmd(cs componentStore, aliases []string) *cobra.Command {
	root := &cobra.Command{
		Use:     cs.kind,
		Aliases: aliases,
		Short:   fmt.Sprintf("List and edit the %s catalog", cs.kind),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss with their resource cost", cs.kind),
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := loadState()
			if err != nil {
				return err
			}
			items := cs.list(s)
			if len(items) == 0 {
				printMiss("", fmt.Sprintf("no %ss in the catalog", cs.kind))
				return nil
			}
			f := report.NewFormatter(cfg.Locale)
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "ID\tNAME\t"+axisHeader()+"\t")
			for _, c := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t\n", c.ID, c.Name, axisCells(f, c.Resources))
			}
			return tw.Flush()
		},
	}

	var name string
	vf := newVectorFlags()
	set := &cobra.Command{
		Use:   "set <id>",
		Short: fmt.Sprintf("Create or update a %s; only the flags given are applied", cs.kind),
		Example: fmt.Sprintf("  socsel %s set my_%s --name \"My %s\" --kdmips 12 --dram-bw 0.8",
			cs.kind, cs.kind, cs.kind),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var stored catalog.Component
			var replaced bool
			if _, err := updateState(func(s *catalog.State) error {
				c, ok := cs.get(s, args[0])
				if !ok {
					c = catalog.Component{ID: args[0], Name: args[0]}
				}
				if cmd.Flags().Changed("name") {
					c.Name = strings.TrimSpace(name)
				}
				if err := vf.apply(cmd.Flags(), &c.Resources); err != nil {
					return err
				}
				stored, replaced = cs.upsert(s, c)
				return nil
			}); err != nil {
				return err
			}
			verb := "added"
			if replaced {
				verb = "updated"
			}
			printOK(stored.ID, fmt.Sprintf("%s %s", cs.kind, verb))
			return nil
		},
	}
	set.Flags().StringVar(&name, "name", "", "Display name (default: the id)")
	vf.register(set.Flags())

	remove := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s; features referring to it keep the dangling id", cs.kind),
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, err := updateState(func(s *catalog.State) error {
				return cs.remove(s, args[0])
			}); err != nil {
				return err
			}
			printOK(args[0], fmt.Sprintf("%s removed", cs.kind))
			return nil
		},
	}

	root.AddCommand(list, set, remove)
	return root
}

// vectorFlags binds one float flag per resource axis.
type vectorFlags map[resource.Axis]*float64

func newVectorFlags() vectorFlags {
	vf := vectorFlags{}
	for _, ax := range resource.Axes() {
		vf[ax] = new(float64)
	}
	return vf
}

func axisFlagName(ax resource.Axis) string {
	if ax == resource.DRAMBW {
		return "dram-bw"
	}
	return strings.ToLower(ax.Key())
}

func (vf vectorFlags) register(fs *pflag.FlagSet) {
	for _, ax := range resource.Axes() {
		fs.Float64Var(vf[ax], axisFlagName(ax), 0, ax.Label())
	}
}

// apply copies the changed flags into v.
func (vf vectorFlags) apply(fs *pflag.FlagSet, v *resource.Vector) error {
	for _, ax := range resource.Axes() {
		if !fs.Changed(axisFlagName(ax)) {
			continue
		}
		x := *vf[ax]
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("--%s must be a finite number, got %v", axisFlagName(ax), x)
		}
		if x < 0 {
			return fmt.Errorf("--%s must not be negative", axisFlagName(ax))
		}
		v.Set(ax, x)
	}
	return nil
}

func axisHeader() string {
	cols := make([]string, 0, len(resource.Axes()))
	for _, ax := range resource.Axes() {
		cols = append(cols, strings.ToUpper(ax.Name()))
	}
	return strings.Join(cols, "\t")
}

func axisCells(f *report.Formatter, v resource.Vector) string {
	cells := make([]string, 0, len(resource.Axes()))
	for _, ax := range resource.Axes() {
		cells = append(cells, f.Value(ax, v.Get(ax)))
	}
	return strings.Join(cells, "\t")
}

// Package report bundles the resolver and matcher results for the current
// selection and renders them as text, Markdown or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/matcher"
	"github.com/kamusis/socsel/internal/resolver"
	"github.com/kamusis/socsel/internal/resource"
)

// Format selects a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat resolves a format name; "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, markdown or json)", s)
}

// Analysis is everything the analysis view shows for one state.
type Analysis struct {
	Requirements resolver.Requirements `json:"requirements"`
	Match        matcher.Result        `json:"match"`
	Candidates   []matcher.Candidate   `json:"candidates,omitempty"`
}

// Analyze resolves the selection in s and matches it against its SoCs.
func Analyze(s *catalog.State) Analysis {
	req := resolver.ResolveState(s)
	return Analysis{
		Requirements: req,
		Match:        matcher.Match(req.TotalResources, s.SoCs),
		Candidates:   matcher.Rank(req.TotalResources, s.SoCs),
	}
}

// HasLoad reports whether any axis of the requirement is above zero.
func (a Analysis) HasLoad() bool {
	for _, ax := range resource.Axes() {
		if a.Requirements.TotalResources.Get(ax) > 0 {
			return true
		}
	}
	return false
}

// IsBestFit reports whether soc is the best fit of a.
func (a Analysis) IsBestFit(soc catalog.SoC) bool {
	return a.Match.BestFit != nil && a.Match.BestFit.ID == soc.ID
}

const (
	msgNoSelection = "Select features to see the required components and resource calculations."
	msgNoSoC       = "The required resources exceed the capabilities of all available SoCs in the database. Consider reducing features or sourcing a more powerful chip."
)

// Render writes a in format.
func Render(w io.Writer, a Analysis, format Format, f *Formatter) error {
	if f == nil {
		f = NewFormatter("")
	}
	switch format {
	case FormatJSON:
		return renderJSON(w, a)
	case FormatMarkdown:
		return renderMarkdown(w, a, f)
	case FormatText, "":
		return renderText(w, a, f)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// UtilizationRow is one axis of a required-vs-available comparison as
// served to JSON consumers.
type UtilizationRow struct {
	Axis      string  `json:"axis"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Percent   float64 `json:"percent"`
	Level     string  `json:"level"`
}

type jsonSoC struct {
	catalog.SoC
	Score       float64          `json:"score"`
	BestFit     bool             `json:"bestFit"`
	Utilization []UtilizationRow `json:"utilization"`
}

type jsonReport struct {
	SelectedFeatures   []catalog.Feature  `json:"selectedFeatures"`
	MandatoryFunctions []catalog.Function `json:"mandatoryFunctions"`
	MandatorySensors   []catalog.Sensor   `json:"mandatorySensors"`
	TotalResources     resource.Vector    `json:"totalResources"`
	SuitableSoCs       []jsonSoC          `json:"suitableSoCs"`
	BestFit            *catalog.SoC       `json:"bestFit"`
}

// UtilizationRows compares required against available on every axis.
func UtilizationRows(required, available resource.Vector) []UtilizationRow {
	rows := resource.Compare(required, available)
	out := make([]UtilizationRow, len(rows))
	for i, r := range rows {
		out[i] = UtilizationRow{
			Axis:      r.Axis.Key(),
			Required:  r.Required,
			Available: r.Available,
			Percent:   r.Percent,
			Level:     r.Level.String(),
		}
	}
	return out
}

func renderJSON(w io.Writer, a Analysis) error {
	rep := jsonReport{
		SelectedFeatures:   nonNil(a.Requirements.Features),
		MandatoryFunctions: nonNil(a.Requirements.MandatoryFunctions),
		MandatorySensors:   nonNil(a.Requirements.MandatorySensors),
		TotalResources:     a.Requirements.TotalResources,
		SuitableSoCs:       []jsonSoC{},
		BestFit:            a.Match.BestFit,
	}
	for _, soc := range a.Match.Suitable {
		rep.SuitableSoCs = append(rep.SuitableSoCs, jsonSoC{
			SoC:         soc,
			Score:       matcher.Score(soc),
			BestFit:     a.IsBestFit(soc),
			Utilization: UtilizationRows(a.Requirements.TotalResources, soc.Resources),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ── Text ─────────────────────────────────────────────────────────────────────

func renderText(w io.Writer, a Analysis, f *Formatter) error {
	fmt.Fprintln(w, "=== ADAS SoC Selection Summary ===")

	req := a.Requirements
	if req.IsEmpty() {
		fmt.Fprintf(w, "\n  %s\n", msgNoSelection)
		return nil
	}

	fmt.Fprintln(w, "\n● Selected Features")
	for _, feat := range req.Features {
		fmt.Fprintf(w, "  %s\n", feat.Name)
		if feat.Description != "" {
			fmt.Fprintf(w, "      %s\n", feat.Description)
		}
	}

	fmt.Fprintln(w, "\n● Required Sensors")
	sensors := make([]catalog.Component, len(req.MandatorySensors))
	for i, sn := range req.MandatorySensors {
		sensors[i] = sn.Component
	}
	if err := componentTable(w, "SENSOR", sensors, f); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n● Required Functions")
	fns := make([]catalog.Component, len(req.MandatoryFunctions))
	for i, fn := range req.MandatoryFunctions {
		fns[i] = fn.Component
	}
	if err := componentTable(w, "FUNCTION", fns, f); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n● Total Requirements")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"METRIC"}
	row := []string{"Total Required"}
	for _, ax := range resource.Axes() {
		header = append(header, strings.ToUpper(ax.Label()))
		row = append(row, f.Value(ax, req.TotalResources.Get(ax)))
	}
	fmt.Fprintln(tw, "  "+strings.Join(header, "\t")+"\t")
	fmt.Fprintln(tw, "  "+strings.Join(row, "\t")+"\t")
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n=== SoC Suggestion ===")
	if !a.HasLoad() {
		fmt.Fprintln(w, "\n  SoC recommendations will appear here once features are selected.")
		return nil
	}
	if len(a.Match.Suitable) == 0 {
		fmt.Fprintln(w, "\n  ✗  No Suitable SoC Found")
		fmt.Fprintf(w, "     %s\n", msgNoSoC)
		return nil
	}
	for _, soc := range a.Match.Suitable {
		mark := " "
		badge := ""
		if a.IsBestFit(soc) {
			mark, badge = "★", "  [Best Fit]"
		}
		fmt.Fprintf(w, "\n  %s %s (%s - %s)%s\n", mark, soc.Name, soc.Vendor, soc.Tier, badge)
		if err := UtilizationTable(w, req.TotalResources, soc.Resources, f, "    "); err != nil {
			return err
		}
	}
	return nil
}

func componentTable(w io.Writer, title string, items []catalog.Component, f *Formatter) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{title}
	for _, ax := range resource.Axes() {
		header = append(header, strings.ToUpper(ax.Name()))
	}
	fmt.Fprintln(tw, "  "+strings.Join(header, "\t")+"\t")
	for _, c := range items {
		row := []string{c.Name}
		for _, ax := range resource.Axes() {
			row = append(row, f.Value(ax, c.Resources.Get(ax)))
		}
		fmt.Fprintln(tw, "  "+strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

// UtilizationTable writes the required/available/utilisation table of one
// SoC. Rows above 75% are flagged with their level.
func UtilizationTable(w io.Writer, required, available resource.Vector, f *Formatter, indent string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sMETRIC\tREQUIRED\tAVAILABLE\tUTILIZATION\t\n", indent)
	for _, row := range resource.Compare(required, available) {
		level := ""
		if row.Level != resource.LevelOK {
			level = row.Level.String()
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\n", indent,
			row.Axis.Label(),
			f.Compared(row.Axis, row.Required),
			f.Compared(row.Axis, row.Available),
			f.Percent(row.Percent),
			level,
		)
	}
	return tw.Flush()
}

// ── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, a Analysis, f *Formatter) error {
	var b strings.Builder
	b.WriteString("# ADAS SoC Selection Summary\n\n")

	req := a.Requirements
	if req.IsEmpty() {
		b.WriteString("_" + msgNoSelection + "_\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("## Selected Features\n\n")
	for _, feat := range req.Features {
		fmt.Fprintf(&b, "- **%s**", mdEscape(feat.Name))
		if feat.Description != "" {
			fmt.Fprintf(&b, ": %s", mdEscape(feat.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Required Components\n\n### Required Sensors\n\n")
	sensors := make([]catalog.Component, len(req.MandatorySensors))
	for i, sn := range req.MandatorySensors {
		sensors[i] = sn.Component
	}
	mdComponents(&b, "Sensor", sensors, f)

	b.WriteString("\n### Required Functions\n\n")
	fns := make([]catalog.Component, len(req.MandatoryFunctions))
	for i, fn := range req.MandatoryFunctions {
		fns[i] = fn.Component
	}
	mdComponents(&b, "Function", fns, f)

	b.WriteString("\n## Total Requirements\n\n| Metric |")
	for _, ax := range resource.Axes() {
		fmt.Fprintf(&b, " %s |", ax.Label())
	}
	b.WriteString("\n|---|" + strings.Repeat("---:|", len(resource.Axes())) + "\n| **Total Required** |")
	for _, ax := range resource.Axes() {
		fmt.Fprintf(&b, " **%s** |", f.Value(ax, req.TotalResources.Get(ax)))
	}
	b.WriteString("\n\n## SoC Suggestion\n\n")

	switch {
	case !a.HasLoad():
		b.WriteString("_SoC recommendations will appear here once features are selected._\n")
	case len(a.Match.Suitable) == 0:
		b.WriteString("> **No Suitable SoC Found**\n>\n> " + msgNoSoC + "\n")
	default:
		for _, soc := range a.Match.Suitable {
			fmt.Fprintf(&b, "### %s\n\n%s - %s", mdEscape(soc.Name), mdEscape(soc.Vendor), soc.Tier)
			if a.IsBestFit(soc) {
				b.WriteString(" · ★ **Best Fit**")
			}
			b.WriteString("\n\n| Metric | Required | Available | Utilization |\n|---|---:|---:|---:|\n")
			for _, row := range resource.Compare(req.TotalResources, soc.Resources) {
				pct := f.Percent(row.Percent)
				if row.Level != resource.LevelOK {
					pct = "**" + pct + "**"
				}
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", row.Axis.Label(),
					f.Compared(row.Axis, row.Required), f.Compared(row.Axis, row.Available), pct)
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func mdComponents(b *strings.Builder, title string, items []catalog.Component, f *Formatter) {
	if len(items) == 0 {
		b.WriteString("_None._\n")
		return
	}
	fmt.Fprintf(b, "| %s |", title)
	for _, ax := range resource.Axes() {
		fmt.Fprintf(b, " %s |", ax.Name())
	}
	b.WriteString("\n|---|" + strings.Repeat("---:|", len(resource.Axes())) + "\n")
	for _, c := range items {
		fmt.Fprintf(b, "| %s |", mdEscape(c.Name))
		for _, ax := range resource.Axes() {
			fmt.Fprintf(b, " %s |", f.Value(ax, c.Resources.Get(ax)))
		}
		b.WriteString("\n")
	}
}

func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}

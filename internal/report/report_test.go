package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/resource"
)

func TestFormatter_Value(t *testing.T) {
	f := NewFormatter("en-US")
	cases := []struct {
		axis resource.Axis
		in   float64
		want string
	}{
		{resource.KDMIPS, 1500, "1,500"},
		{resource.ISP, 800, "800"},
		{resource.DRAMBW, 2.5, "2.5"},
		{resource.DRAMBW, 30, "30.0"},
		{resource.TOPS, 2.5, "2.5"},
		{resource.GPU, 1200, "1200"},
	}
	for _, c := range cases {
		if got := f.Value(c.axis, c.in); got != c.want {
			t.Errorf("Value(%s, %v) = %q, want %q", c.axis, c.in, got, c.want)
		}
	}
	if got := f.Compared(resource.GPU, 1200); got != "1,200" {
		t.Errorf("Compared(gpu, 1200) = %q", got)
	}
	if got := f.Percent(38); got != "38.0%" {
		t.Errorf("Percent(38) = %q", got)
	}
	if got := f.Number(2163); got != "2,163" {
		t.Errorf("Number(2163) = %q", got)
	}
}

func TestFormatter_FallsBackOnBadLocale(t *testing.T) {
	if got := NewFormatter("not a locale!").Value(resource.KDMIPS, 2000); got != "2,000" {
		t.Fatalf("expected US formatting, got %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "md": FormatMarkdown, "JSON": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatalf("expected error for pdf")
	}
}

func TestAnalyze(t *testing.T) {
	s := catalog.Defaults()
	_ = s.Select("feat_aeb")
	a := Analyze(s)
	if !a.HasLoad() || a.Match.BestFit == nil || a.Match.BestFit.ID != "soc_mid" {
		t.Fatalf("unexpected analysis: %+v", a.Match)
	}
	if len(a.Candidates) != len(s.SoCs) {
		t.Fatalf("candidates must cover every SoC")
	}
}

func TestRenderText_NoSelection(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Analyze(catalog.Defaults()), FormatText, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Select features") {
		t.Fatalf("missing hint:\n%s", buf.String())
	}
}

func TestRenderText_WithBestFit(t *testing.T) {
	s := catalog.Defaults()
	_ = s.Select("feat_auto_park") // dewarp 1000 rules out soc_entry
	var buf bytes.Buffer
	if err := Render(&buf, Analyze(s), FormatText, NewFormatter("en-US")); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Feature_p_1", "Sensor 1", "Function_7", "Total Required", "[Best Fit]", "SoC 002", "CPU (kDMIPS)"} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderText_NoSuitableSoC(t *testing.T) {
	s := catalog.Defaults()
	_ = s.Select("feat_aeb")
	s.SoCs = s.SoCs[:0]
	var buf bytes.Buffer
	if err := Render(&buf, Analyze(s), FormatText, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No Suitable SoC Found") {
		t.Fatalf("missing no-match message:\n%s", buf.String())
	}
}

func TestRenderMarkdown(t *testing.T) {
	s := catalog.Defaults()
	_ = s.Select("feat_driving_ncap")
	var buf bytes.Buffer
	if err := Render(&buf, Analyze(s), FormatMarkdown, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"# ADAS SoC Selection Summary", "| Sensor |", "**Best Fit**", "| CPU (kDMIPS) |"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
	if !strings.Contains(out, `Feature\_d\_5`) {
		t.Errorf("markdown must escape underscores in names")
	}
}

func TestRenderJSON(t *testing.T) {
	s := catalog.Defaults()
	_ = s.Select("feat_lka")
	var buf bytes.Buffer
	if err := Render(&buf, Analyze(s), FormatJSON, nil); err != nil {
		t.Fatal(err)
	}
	var got struct {
		TotalResources resource.Vector `json:"totalResources"`
		SuitableSoCs   []struct {
			ID          string           `json:"id"`
			BestFit     bool             `json:"bestFit"`
			Utilization []UtilizationRow `json:"utilization"`
		} `json:"suitableSoCs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.TotalResources.KDMIPS != 20 || len(got.SuitableSoCs) != 5 {
		t.Fatalf("unexpected report: %+v", got)
	}
	if !got.SuitableSoCs[0].BestFit || got.SuitableSoCs[0].ID != "soc_entry" || len(got.SuitableSoCs[0].Utilization) != 6 {
		t.Fatalf("first SoC must be the best fit: %+v", got.SuitableSoCs[0])
	}
}

package portfolio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/resource"
)

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"a.json": FormatJSON,
		"a.YML":  FormatYAML,
		"a.yaml": FormatYAML,
		"a.toml": FormatTOML,
		"a.xlsx": FormatXLSX,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("a.csv"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"soc": KindSoCs, "Sensors": KindSensors, "function": KindFunctions, "features": KindFeatures} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("chips"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

// Each text format must reproduce the catalog it exported.
func TestWriteRead_TextFormats(t *testing.T) {
	s := catalog.Defaults()
	dir := t.TempDir()
	for _, ext := range []string{".json", ".yaml", ".toml"} {
		socPath := filepath.Join(dir, "socs"+ext)
		if err := Write(socPath, KindSoCs, s); err != nil {
			t.Fatalf("Write %s: %v", socPath, err)
		}
		b, err := Read(socPath, KindSoCs)
		if err != nil {
			t.Fatalf("Read %s: %v", socPath, err)
		}
		if len(b.SoCs) != 5 || b.SoCs[2] != s.SoCs[2] {
			t.Fatalf("%s: SoCs did not survive: %+v", ext, b.SoCs)
		}

		featPath := filepath.Join(dir, "features"+ext)
		if err := Write(featPath, KindFeatures, s); err != nil {
			t.Fatalf("Write %s: %v", featPath, err)
		}
		fb, err := Read(featPath, KindFeatures)
		if err != nil {
			t.Fatalf("Read %s: %v", featPath, err)
		}
		fns, feats := catalog.SplitEntries(fb.Entries)
		if len(fns) != 12 || len(feats) != 6 {
			t.Fatalf("%s: got %d functions, %d features", ext, len(fns), len(feats))
		}
		if got := feats[4].MandatorySensorIDs; len(got) != 3 || got[1] != "sensor_accelerometer" {
			t.Fatalf("%s: feature dependencies lost: %v", ext, got)
		}
	}
}

func TestWriteRead_XLSX(t *testing.T) {
	s := catalog.Defaults()
	dir := t.TempDir()

	path := filepath.Join(dir, "features.xlsx")
	if err := Write(path, KindFeatures, s); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := Read(path, KindFeatures)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	fns, feats := catalog.SplitEntries(b.Entries)
	if len(fns) != 12 || len(feats) != 6 {
		t.Fatalf("got %d functions, %d features", len(fns), len(feats))
	}
	if fns[9].Resources != s.Functions[9].Resources {
		t.Fatalf("resources lost: %+v vs %+v", fns[9].Resources, s.Functions[9].Resources)
	}
	if got := feats[0].MandatorySensorIDs; len(got) != 2 || got[0] != "sensor_fc_mc_eco" {
		t.Fatalf("id list not split: %v", got)
	}

	socPath := filepath.Join(dir, "socs.xlsx")
	if err := Write(socPath, KindSoCs, s); err != nil {
		t.Fatalf("Write socs: %v", err)
	}
	sb, err := Read(socPath, KindSoCs)
	if err != nil {
		t.Fatalf("Read socs: %v", err)
	}
	if len(sb.SoCs) != 5 || sb.SoCs[4] != s.SoCs[4] {
		t.Fatalf("SoCs did not survive: %+v", sb.SoCs)
	}
}

func TestDecodeXLSX_LenientNumbers(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"id", "name", "resources.kDMIPS", "resources.dramBw", "notes"},
		{"sn1", "Cam", "abc", 1.5, "ignored"},
		{"", "", "", "", ""},
		{"sn2", "Radar", 12},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &rows[i]); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	b, err := Decode(&buf, FormatXLSX, KindSensors)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(b.Entries) != 2 {
		t.Fatalf("blank rows must be skipped, got %d entries", len(b.Entries))
	}
	if b.Entries[0].Resources != (resource.Vector{DRAMBW: 1.5}) {
		t.Fatalf("unparsable numbers must read as 0: %+v", b.Entries[0].Resources)
	}
	if b.Entries[1].Resources.KDMIPS != 12 {
		t.Fatalf("short rows must still parse: %+v", b.Entries[1])
	}
}

func TestDecodeJSON_RejectsObject(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"id": "x"}`), FormatJSON, KindSoCs)
	if err == nil || !strings.Contains(err.Error(), "expected an array") {
		t.Fatalf("expected array error, got %v", err)
	}
}

func TestApply_ReplaceFeaturesSplitsLegacyList(t *testing.T) {
	s := catalog.Defaults()
	b := &Batch{Kind: KindFeatures, Entries: []catalog.Entry{
		{ID: "fn_a", Name: "A", Resources: resource.Vector{KDMIPS: 3}},
		{ID: "ft_a", Name: "FA", IsFeature: true, Category: catalog.Driving, MandatoryFunctionIDs: []string{"fn_a"}, Resources: resource.Vector{KDMIPS: 9}},
	}}
	res, err := Apply(s, b, Options{Mode: ModeReplace})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Functions) != 1 || len(s.Features) != 1 || res.Functions != 1 || res.Features != 1 {
		t.Fatalf("unexpected catalogs: %d functions, %d features", len(s.Functions), len(s.Features))
	}
	if !s.Features[0].Resources.IsZero() {
		t.Fatalf("imported feature kept its own resources")
	}
	if len(s.SoCs) != 5 || len(s.Sensors) != 5 {
		t.Fatalf("other catalogs must be untouched")
	}
}

func TestApply_SanitisesIncoming(t *testing.T) {
	s := catalog.Defaults()
	b := &Batch{Kind: KindSoCs, SoCs: []catalog.SoC{{Name: "Nameless", Tier: catalog.TierEntry, Resources: resource.Vector{GPU: -10, TOPS: 4}}}}
	res, err := Apply(s, b, Options{Mode: ModeReplace})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Repairs) != 2 {
		t.Fatalf("expected id and clamp repairs, got %v", res.Repairs)
	}
	if !strings.HasPrefix(s.SoCs[0].ID, "new-soc-") || s.SoCs[0].Resources.GPU != 0 {
		t.Fatalf("SoC not sanitised: %+v", s.SoCs[0])
	}
}

func TestApply_MergeReportsConflicts(t *testing.T) {
	s := catalog.Defaults()
	changed := s.SoCs[1]
	changed.Resources.TOPS = 99
	b := &Batch{Kind: KindSoCs, SoCs: []catalog.SoC{
		s.SoCs[0], // identical
		changed,   // conflict
		{ID: "soc_new", Name: "New", Tier: catalog.TierEntry},
	}}

	res, err := Apply(s, b, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 1 || res.Skipped != 1 || len(res.Conflicts) != 1 || res.Replaced != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Conflicts[0].ID != "soc_mid" || res.Conflicts[0].Existing == res.Conflicts[0].Incoming {
		t.Fatalf("unexpected conflict: %+v", res.Conflicts[0])
	}
	if got, _ := s.SoCByID("soc_mid"); got.Resources.TOPS != 15 {
		t.Fatalf("conflicting entry must be left untouched without overwrite")
	}
	if len(s.SoCs) != 6 {
		t.Fatalf("new SoC not appended: %d", len(s.SoCs))
	}

	res, err = Apply(s, b, Options{Mode: ModeMerge, Overwrite: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Replaced != 1 || res.Added != 0 {
		t.Fatalf("unexpected overwrite result: %+v", res)
	}
	if got, _ := s.SoCByID("soc_mid"); got.Resources.TOPS != 99 {
		t.Fatalf("overwrite did not apply")
	}
}

func TestApply_MergeFeaturesIgnoresEmptyListShape(t *testing.T) {
	s := &catalog.State{Features: []catalog.Feature{
		catalog.NewFeature("f", "F", catalog.FeatureMeta{Category: catalog.Parking, MandatoryFunctionIDs: []string{"x"}, MandatorySensorIDs: []string{}}),
	}}
	b := &Batch{Kind: KindFeatures, Entries: []catalog.Entry{
		{ID: "f", Name: "F", IsFeature: true, Category: catalog.Parking, MandatoryFunctionIDs: []string{"x"}},
	}}
	res, err := Apply(s, b, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 || len(res.Conflicts) != 0 {
		t.Fatalf("identical feature reported as conflict: %+v", res)
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"), KindSoCs)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/kamusis/socsel/internal/resource"
)

func TestDefaults_AreIndependentCopies(t *testing.T) {
	a := Defaults()
	b := Defaults()
	a.Features[0].MandatorySensorIDs[0] = "mutated"
	a.SoCs[0].Name = "mutated"
	if b.Features[0].MandatorySensorIDs[0] == "mutated" || b.SoCs[0].Name == "mutated" {
		t.Fatalf("Defaults must return fresh data on every call")
	}
	if len(a.Sensors) != 5 || len(a.Functions) != 12 || len(a.Features) != 6 || len(a.SoCs) != 5 {
		t.Fatalf("unexpected default sizes: %d sensors, %d functions, %d features, %d socs",
			len(a.Sensors), len(a.Functions), len(a.Features), len(a.SoCs))
	}
	if issues := Validate(a); HasErrors(issues) {
		t.Fatalf("defaults should validate cleanly, got %v", issues)
	}
}

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection("a")
	if s.Toggle("a") {
		t.Fatalf("toggling a selected id must deselect it")
	}
	if !s.Toggle("b") {
		t.Fatalf("toggling an unselected id must select it")
	}
	if got := s.IDs(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("unexpected ids: %v", got)
	}
	s.Add("")
	if s.Len() != 1 {
		t.Fatalf("blank ids must be ignored")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Clear left %d ids", s.Len())
	}
}

func TestState_ToggleUnknownFeature(t *testing.T) {
	s := Defaults()
	if _, err := s.Toggle("feat_nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	on, err := s.Toggle("feat_aeb")
	if err != nil || !on {
		t.Fatalf("Toggle(feat_aeb) = %v, %v", on, err)
	}
}

func TestState_AddAndRemoveFeature(t *testing.T) {
	s := Defaults()
	f := s.AddFeature("  Highway Pilot ", FeatureMeta{Category: Driving, MandatoryFunctionIDs: []string{"func_acc_logic"}})
	if !strings.HasPrefix(f.ID, "feat-custom-") {
		t.Fatalf("unexpected generated id %q", f.ID)
	}
	if f.Name != "Highway Pilot" {
		t.Fatalf("name not trimmed: %q", f.Name)
	}
	if err := s.Select(f.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveFeature(f.ID); err != nil {
		t.Fatal(err)
	}
	if s.Selection.Has(f.ID) {
		t.Fatalf("removed feature must be deselected")
	}
	if err := s.RemoveFeature(f.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second removal, got %v", err)
	}
}

func TestState_InsertFeatureRejectsTakenID(t *testing.T) {
	s := Defaults()
	in := NewFeature("feat_hwp", "Highway Pilot", FeatureMeta{Category: Driving})
	in.Resources.KDMIPS = 40
	f, err := s.InsertFeature(in)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Resources.IsZero() {
		t.Fatalf("inserted feature kept own resources")
	}
	if _, err := s.InsertFeature(in); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if len(s.Features) != 7 {
		t.Fatalf("unexpected feature count %d", len(s.Features))
	}
}

func TestState_UpdateFeatureZeroesResources(t *testing.T) {
	s := Defaults()
	f, _ := s.FeatureByID("feat_lka")
	f.Resources = resource.Vector{KDMIPS: 99}
	f.Description = "updated"
	if err := s.UpdateFeature(f); err != nil {
		t.Fatal(err)
	}
	got, _ := s.FeatureByID("feat_lka")
	if !got.Resources.IsZero() || got.Description != "updated" {
		t.Fatalf("unexpected stored feature: %+v", got)
	}
}

func TestState_UpsertAssignsIDAndReplaces(t *testing.T) {
	s := &State{}
	sn, replaced := s.UpsertSensor(NewSensor("", "Lidar", resource.Vector{KDMIPS: 5}))
	if replaced || !strings.HasPrefix(sn.ID, "new-sensor-") {
		t.Fatalf("unexpected upsert result: %+v replaced=%v", sn, replaced)
	}
	sn.Name = "Lidar v2"
	if _, replaced := s.UpsertSensor(sn); !replaced {
		t.Fatalf("second upsert with same id must replace")
	}
	if len(s.Sensors) != 1 || s.Sensors[0].Name != "Lidar v2" {
		t.Fatalf("unexpected sensors: %+v", s.Sensors)
	}
}

func TestState_RemoveDoesNotAliasCaller(t *testing.T) {
	s := Defaults()
	before := s.SoCs
	if err := s.RemoveSoC("soc_entry"); err != nil {
		t.Fatal(err)
	}
	if before[0].ID != "soc_entry" {
		t.Fatalf("removal rewrote the previous backing array")
	}
	if _, ok := s.SoCByID("soc_entry"); ok {
		t.Fatalf("soc_entry still present")
	}
}

func TestState_CloneIsDeep(t *testing.T) {
	s := Defaults()
	_ = s.Select("feat_aeb")
	c := s.Clone()
	c.Features[0].MandatoryFunctionIDs[0] = "x"
	c.Selection.Clear()
	if s.Features[0].MandatoryFunctionIDs[0] == "x" || !s.Selection.Has("feat_aeb") {
		t.Fatalf("Clone shares memory with the original")
	}
}

func TestSplitEntries(t *testing.T) {
	entries := []Entry{
		{ID: "f1", Name: "plain function", Resources: resource.Vector{KDMIPS: 1}},
		{ID: "x1", Name: "flagged", IsFeature: true, Resources: resource.Vector{KDMIPS: 50}},
		{ID: "x2", Name: "categorised", Category: Parking},
	}
	fns, feats := SplitEntries(entries)
	if len(fns) != 1 || fns[0].ID != "f1" {
		t.Fatalf("unexpected functions: %+v", fns)
	}
	if len(feats) != 2 || !feats[0].Resources.IsZero() {
		t.Fatalf("features must be split out with zero resources: %+v", feats)
	}
	joined := JoinEntries(fns, feats)
	if len(joined) != 3 || joined[1].IsFeature != true {
		t.Fatalf("unexpected joined entries: %+v", joined)
	}
}

func TestValidate_ReportsProblems(t *testing.T) {
	s := Defaults()
	s.Features = append(s.Features, NewFeature("feat_bad", "Bad", FeatureMeta{
		Category:             "Flying",
		MandatoryFunctionIDs: []string{"func_missing"},
	}))
	s.SoCs = append(s.SoCs, SoC{ID: "soc_entry", Tier: "Budget", Resources: resource.Vector{GPU: -1}})
	s.Selection = NewSelection("ghost")

	issues := Validate(s)
	want := []string{
		"feature feat_bad: unknown category",
		"feature feat_bad: references unknown function func_missing",
		"soc soc_entry: duplicate id",
		"soc soc_entry: unknown tier",
		"soc soc_entry: negative capacity on gpu",
		"selection ghost: selected id is not a known feature",
	}
	for _, w := range want {
		found := false
		for _, i := range issues {
			if strings.HasPrefix(i.String(), w) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing issue %q in %v", w, issues)
		}
	}
	if !HasErrors(issues) {
		t.Fatalf("expected errors")
	}
}

func TestSanitize_ClampsAndFillsIDs(t *testing.T) {
	s := &State{
		Functions: []Function{NewFunction("", "f", resource.Vector{KDMIPS: -5, TOPS: 1})},
		SoCs:      []SoC{{ID: "s", Tier: TierEntry, Resources: resource.Vector{DRAMBW: -1}}},
	}
	issues := Sanitize(s)
	if len(issues) != 3 {
		t.Fatalf("expected 3 repairs, got %v", issues)
	}
	if s.Functions[0].ID == "" || s.Functions[0].Resources.KDMIPS != 0 || s.Functions[0].Resources.TOPS != 1 {
		t.Fatalf("function not repaired: %+v", s.Functions[0])
	}
	if s.SoCs[0].Resources.DRAMBW != 0 {
		t.Fatalf("soc not clamped: %+v", s.SoCs[0])
	}
	if s.Selection == nil {
		t.Fatalf("Sanitize must initialise the selection")
	}
	if HasErrors(Validate(s)) {
		t.Fatalf("sanitized state should validate: %v", Validate(s))
	}
}

func TestState_PruneSelection(t *testing.T) {
	s := Defaults()
	s.Selection = NewSelection("feat_aeb", "gone", "func_aeb_logic")
	dropped := s.PruneSelection()
	if len(dropped) != 2 || dropped[0] != "func_aeb_logic" || dropped[1] != "gone" {
		t.Fatalf("unexpected dropped ids: %v", dropped)
	}
	if s.Selection.Len() != 1 || !s.Selection.Has("feat_aeb") {
		t.Fatalf("valid selection lost: %v", s.Selection.IDs())
	}
}

func TestParseTier_KeepsStoredNames(t *testing.T) {
	for in, want := range map[string]Tier{"entry": TierEntry, " Mid-range": MidRange, "HIGH-PERFORMANCE": HighPerformance} {
		got, err := ParseTier(in)
		if err != nil || got != want {
			t.Errorf("ParseTier(%q) = %q, %v", in, got, err)
		}
	}
	if string(TierEntry) != "Entry" || Tiers()[0] != TierEntry {
		t.Fatalf("entry tier must stay %q on disk, got %q", "Entry", TierEntry)
	}
	if _, err := ParseTier("Budget"); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
}

package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/kamusis/socsel/internal/catalog"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.SoCs) != 5 || len(s.Features) != 6 || s.Selection.Len() != 0 {
		t.Fatalf("expected defaults, got %d socs %d features", len(s.SoCs), len(s.Features))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := catalog.Defaults()
	if err := s.Select("feat_aeb"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveSoC("soc_ultra"); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Selection.Has("feat_aeb") || len(got.SoCs) != 4 {
		t.Fatalf("round trip lost data: selection=%v socs=%d", got.Selection.IDs(), len(got.SoCs))
	}
	if len(got.Functions) != 12 || len(got.Features) != 6 || len(got.Sensors) != 5 {
		t.Fatalf("catalog sizes changed: %d/%d/%d", len(got.Functions), len(got.Features), len(got.Sensors))
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Fatalf("backup should be removed after a successful save")
	}

	// A second save swaps over the existing file.
	got.ClearSelection()
	if err := Save(path, got); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Selection.Len() != 0 {
		t.Fatalf("second save not visible: %v", again.Selection.IDs())
	}
}

func TestEncode_UsesSessionShape(t *testing.T) {
	data, err := Encode(catalog.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"adasFunctions"`, `"sensors"`, `"soCs"`, `"selectedFeatureIds"`, `"isFeature": true`, `"mandatoryFunctionIds"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("encoded state missing %s", key)
		}
	}
}

func TestDecode_LegacyWithoutSoCs(t *testing.T) {
	legacy := `{
  "adasFunctions": [
    {"id": "fn", "name": "Fn", "resources": {"kDMIPS": 4}},
    {"id": "ft", "name": "Ft", "isFeature": true, "category": "Driving", "mandatoryFunctionIds": ["fn"], "mandatorySensorIds": []}
  ],
  "sensors": [{"id": "sn", "name": "Sn", "resources": {"isp": -3}}],
  "selectedFeatureIds": ["ft"]
}`
	s, err := Decode([]byte(legacy))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.SoCs) != len(catalog.DefaultSoCs()) {
		t.Fatalf("legacy state must get default SoCs, got %d", len(s.SoCs))
	}
	if len(s.Functions) != 1 || len(s.Features) != 1 || !s.Selection.Has("ft") {
		t.Fatalf("unexpected state: %+v", s)
	}
	if s.Sensors[0].Resources.ISP != 0 {
		t.Fatalf("negative capacity must be clamped on load")
	}
}

func TestLoadRaw_KeepsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	doc := `{
  "adasFunctions": [{"id": "", "name": "Blank", "resources": {"kDMIPS": -5}}],
  "sensors": [],
  "soCs": [{"id": "s", "name": "S", "tier": "Entry", "resources": {"gpu": -10}}],
  "selectedFeatureIds": []
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	raw, err := LoadRaw(path)
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if raw.Functions[0].ID != "" || raw.Functions[0].Resources.KDMIPS != -5 || raw.SoCs[0].Resources.GPU != -10 {
		t.Fatalf("raw load repaired the state: %+v %+v", raw.Functions, raw.SoCs)
	}
	if !catalog.HasErrors(catalog.Validate(raw)) {
		t.Fatalf("Validate must flag the raw state")
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Functions[0].ID == "" || s.Functions[0].Resources.KDMIPS != 0 || s.SoCs[0].Resources.GPU != 0 {
		t.Fatalf("Load must repair the state: %+v %+v", s.Functions, s.SoCs)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for a corrupt state file")
	}
}

func TestImport_RequiresAllKeys(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "session.json")
	if err := os.WriteFile(p, []byte(`{"adasFunctions": [], "sensors": [], "selectedFeatureIds": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(p); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}

	s := catalog.Defaults()
	_ = s.Select("feat_lka")
	out := filepath.Join(dir, "export.json")
	if err := Export(out, s); err != nil {
		t.Fatalf("Export: %v", err)
	}
	got, err := Import(out)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !got.Selection.Has("feat_lka") || len(got.SoCs) != 5 {
		t.Fatalf("unexpected imported state: %v", got.Selection.IDs())
	}
}

func TestUpdate_AppliesAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	_, err := Update(path, time.Second, func(s *catalog.State) error {
		_, err := s.Toggle("feat_acc")
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Selection.Has("feat_acc") {
		t.Fatalf("update was not persisted")
	}
}

func TestUpdate_ErrorLeavesStateUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	boom := errors.New("boom")
	if _, err := Update(path, time.Second, func(*catalog.State) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if Exists(path) {
		t.Fatalf("nothing should be written when fn fails")
	}
}

func TestUpdate_TimesOutWhenLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	l := flock.New(LockPath(path))
	locked, err := l.TryLock()
	if err != nil || !locked {
		t.Fatalf("cannot take lock for test: %v", err)
	}
	defer func() { _ = l.Unlock() }()

	_, err = Update(path, 100*time.Millisecond, func(*catalog.State) error { return nil })
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := catalog.Defaults()
	s.SoCs = nil
	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}
	if _, err := Reset(path); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.SoCs) != 5 {
		t.Fatalf("reset did not restore defaults")
	}
}

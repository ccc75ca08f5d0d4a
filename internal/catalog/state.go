package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kamusis/socsel/internal/resource"
)

var (
	// ErrNotFound is returned when an id does not resolve in its catalog.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when adding an entry whose id already exists.
	ErrDuplicateID = errors.New("duplicate id")
)

// State is everything the user edits: the four catalogs and the selection.
// It is owned by the caller and handed to the resolver and matcher by value;
// neither of them modifies it.
type State struct {
	Functions []Function
	Sensors   []Sensor
	Features  []Feature
	SoCs      []SoC
	Selection Selection
}

// NewID returns a fresh id with the given prefix, e.g. "feat-custom-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

type keyed interface {
	key() string
}

func indexOf[T keyed](items []T, id string) int {
	for i, it := range items {
		if it.key() == id {
			return i
		}
	}
	return -1
}

func lookup[T keyed](items []T, id string) (T, bool) {
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// upsert replaces the entry with the same id or appends item. The returned
// bool is true when an existing entry was replaced.
func upsert[T keyed](items []T, item T) ([]T, bool) {
	if i := indexOf(items, item.key()); i >= 0 {
		items[i] = item
		return items, true
	}
	return append(items, item), false
}

func removeByID[T keyed](items []T, id string) ([]T, error) {
	i := indexOf(items, id)
	if i < 0 {
		return items, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return append(items[:i:i], items[i+1:]...), nil
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	out := &State{
		Functions: append([]Function(nil), s.Functions...),
		Sensors:   append([]Sensor(nil), s.Sensors...),
		SoCs:      append([]SoC(nil), s.SoCs...),
		Features:  make([]Feature, len(s.Features)),
		Selection: s.Selection.Clone(),
	}
	for i, f := range s.Features {
		f.MandatoryFunctionIDs = append([]string(nil), f.MandatoryFunctionIDs...)
		f.MandatorySensorIDs = append([]string(nil), f.MandatorySensorIDs...)
		out.Features[i] = f
	}
	return out
}

// ── Lookups ──────────────────────────────────────────────────────────────────

// FeatureByID returns the first feature with id.
func (s *State) FeatureByID(id string) (Feature, bool) { return lookup(s.Features, id) }

// FunctionByID returns the first function with id.
func (s *State) FunctionByID(id string) (Function, bool) { return lookup(s.Functions, id) }

// SensorByID returns the first sensor with id.
func (s *State) SensorByID(id string) (Sensor, bool) { return lookup(s.Sensors, id) }

// SoCByID returns the first SoC with id.
func (s *State) SoCByID(id string) (SoC, bool) { return lookup(s.SoCs, id) }

// FeaturesByCategory returns the features in cat, in catalog order.
func (s *State) FeaturesByCategory(cat Category) []Feature {
	var out []Feature
	for _, f := range s.Features {
		if f.Category == cat {
			out = append(out, f)
		}
	}
	return out
}

// ── Selection ────────────────────────────────────────────────────────────────

func (s *State) ensureSelection() {
	if s.Selection == nil {
		s.Selection = NewSelection()
	}
}

// Toggle flips the selection of a feature and returns whether it is now
// selected. Only ids present in the feature catalog can be toggled.
func (s *State) Toggle(id string) (bool, error) {
	if _, ok := s.FeatureByID(id); !ok {
		return false, fmt.Errorf("feature %s: %w", id, ErrNotFound)
	}
	s.ensureSelection()
	return s.Selection.Toggle(id), nil
}

// Select adds a feature to the selection.
func (s *State) Select(id string) error {
	if _, ok := s.FeatureByID(id); !ok {
		return fmt.Errorf("feature %s: %w", id, ErrNotFound)
	}
	s.ensureSelection()
	s.Selection.Add(id)
	return nil
}

// Deselect removes id from the selection. Unknown ids are accepted so stale
// selections can be cleaned up.
func (s *State) Deselect(id string) {
	s.ensureSelection()
	s.Selection.Remove(id)
}

// ClearSelection deselects every feature.
func (s *State) ClearSelection() {
	s.ensureSelection()
	s.Selection.Clear()
}

// PruneSelection deselects ids that are not in the feature catalog and
// returns them.
func (s *State) PruneSelection() []string {
	var dropped []string
	for _, id := range s.Selection.IDs() {
		if _, ok := s.FeatureByID(id); !ok {
			s.Selection.Remove(id)
			dropped = append(dropped, id)
		}
	}
	return dropped
}

// ── Features ─────────────────────────────────────────────────────────────────

// AddFeature creates a feature with a generated id and zero resources.
func (s *State) AddFeature(name string, meta FeatureMeta) Feature {
	f := NewFeature(NewID("feat-custom"), strings.TrimSpace(name), meta)
	s.Features = append(s.Features, f)
	return f
}

// InsertFeature adds f under its own id, which must not be taken yet.
// A blank id gets a generated one as in AddFeature.
func (s *State) InsertFeature(f Feature) (Feature, error) {
	if strings.TrimSpace(f.ID) == "" {
		f.ID = NewID("feat-custom")
	}
	if indexOf(s.Features, f.ID) >= 0 {
		return Feature{}, fmt.Errorf("feature %s: %w", f.ID, ErrDuplicateID)
	}
	f.Resources = resource.Vector{}
	s.Features = append(s.Features, f)
	return f, nil
}

// UpdateFeature replaces the feature with the same id. Resources are reset to
// zero since a feature never carries its own cost.
func (s *State) UpdateFeature(f Feature) error {
	i := indexOf(s.Features, f.ID)
	if i < 0 {
		return fmt.Errorf("feature %s: %w", f.ID, ErrNotFound)
	}
	f.Resources = resource.Vector{}
	s.Features[i] = f
	return nil
}

// RemoveFeature deletes a feature and drops it from the selection.
func (s *State) RemoveFeature(id string) error {
	var err error
	if s.Features, err = removeByID(s.Features, id); err != nil {
		return fmt.Errorf("feature %w", err)
	}
	s.Deselect(id)
	return nil
}

// ── Functions, sensors, SoCs ─────────────────────────────────────────────────
//
// Upserts assign a generated id when the incoming entry has none. Removing a
// function or sensor leaves referencing features dangling; the resolver
// tolerates that.

// UpsertFunction adds or replaces a function and returns the stored value.
func (s *State) UpsertFunction(f Function) (Function, bool) {
	if strings.TrimSpace(f.ID) == "" {
		f.ID = NewID("new-function")
	}
	var replaced bool
	s.Functions, replaced = upsert(s.Functions, f)
	return f, replaced
}

// RemoveFunction deletes a function.
func (s *State) RemoveFunction(id string) error {
	var err error
	if s.Functions, err = removeByID(s.Functions, id); err != nil {
		return fmt.Errorf("function %w", err)
	}
	return nil
}

// UpsertSensor adds or replaces a sensor and returns the stored value.
func (s *State) UpsertSensor(sn Sensor) (Sensor, bool) {
	if strings.TrimSpace(sn.ID) == "" {
		sn.ID = NewID("new-sensor")
	}
	var replaced bool
	s.Sensors, replaced = upsert(s.Sensors, sn)
	return sn, replaced
}

// RemoveSensor deletes a sensor.
func (s *State) RemoveSensor(id string) error {
	var err error
	if s.Sensors, err = removeByID(s.Sensors, id); err != nil {
		return fmt.Errorf("sensor %w", err)
	}
	return nil
}

// UpsertSoC adds or replaces an SoC and returns the stored value.
func (s *State) UpsertSoC(soc SoC) (SoC, bool) {
	if strings.TrimSpace(soc.ID) == "" {
		soc.ID = NewID("new-soc")
	}
	var replaced bool
	s.SoCs, replaced = upsert(s.SoCs, soc)
	return soc, replaced
}

// RemoveSoC deletes an SoC.
func (s *State) RemoveSoC(id string) error {
	var err error
	if s.SoCs, err = removeByID(s.SoCs, id); err != nil {
		return fmt.Errorf("soc %w", err)
	}
	return nil
}

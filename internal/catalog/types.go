// Package catalog holds the entities the selector reasons about (functions,
// sensors, features and SoCs), the feature selection, and the caller-owned
// State that groups them.
package catalog

import (
	"fmt"
	"strings"

	"github.com/kamusis/socsel/internal/resource"
)

// Category groups selectable features.
type Category string

const (
	Driving Category = "Driving"
	Parking Category = "Parking"
)

// Categories returns the known feature categories in display order.
func Categories() []Category { return []Category{Driving, Parking} }

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown feature category %q (want Driving or Parking)", s)
}

// Tier is the performance class a vendor markets an SoC under.
type Tier string

const (
	TierEntry       Tier = "Entry"
	MidRange        Tier = "Mid-range"
	HighPerformance Tier = "High-performance"
)

// Tiers returns the known SoC tiers in ascending order.
func Tiers() []Tier { return []Tier{TierEntry, MidRange, HighPerformance} }

// ParseTier resolves a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown SoC tier %q (want Entry, Mid-range or High-performance)", s)
}

// Component is the shape shared by functions and sensors.
type Component struct {
	ID        string          `json:"id" yaml:"id" toml:"id"`
	Name      string          `json:"name" yaml:"name" toml:"name"`
	Resources resource.Vector `json:"resources" yaml:"resources" toml:"resources"`
}

func (c Component) key() string { return c.ID }

// Function is a software component with its own resource cost.
type Function struct {
	Component `yaml:",inline"`
}

// Sensor is a hardware input with its own resource cost. It is a separate
// type from Function so the two catalogs cannot be mixed up.
type Sensor struct {
	Component `yaml:",inline"`
}

// FeatureMeta carries what a feature adds on top of a function.
type FeatureMeta struct {
	Description          string   `json:"description" yaml:"description" toml:"description"`
	Category             Category `json:"category" yaml:"category" toml:"category"`
	MandatoryFunctionIDs []string `json:"mandatoryFunctionIds" yaml:"mandatoryFunctionIds" toml:"mandatoryFunctionIds"`
	MandatorySensorIDs   []string `json:"mandatorySensorIds" yaml:"mandatorySensorIds" toml:"mandatorySensorIds"`
}

// Feature is a user-selectable capability. Its own Resources are always
// zero; its cost comes from the functions and sensors it mandates.
type Feature struct {
	Function    `yaml:",inline"`
	FeatureMeta `yaml:",inline"`
}

// SoC is a candidate chip. Resources is available capacity.
type SoC struct {
	ID        string          `json:"id" yaml:"id" toml:"id"`
	Name      string          `json:"name" yaml:"name" toml:"name"`
	Vendor    string          `json:"vendor" yaml:"vendor" toml:"vendor"`
	Tier      Tier            `json:"tier" yaml:"tier" toml:"tier"`
	Resources resource.Vector `json:"resources" yaml:"resources" toml:"resources"`
}

func (s SoC) key() string { return s.ID }

// NewFunction builds a Function.
func NewFunction(id, name string, r resource.Vector) Function {
	return Function{Component{ID: id, Name: name, Resources: r}}
}

// NewSensor builds a Sensor.
func NewSensor(id, name string, r resource.Vector) Sensor {
	return Sensor{Component{ID: id, Name: name, Resources: r}}
}

// NewFeature builds a Feature with zero resources.
func NewFeature(id, name string, meta FeatureMeta) Feature {
	return Feature{
		Function:    NewFunction(id, name, resource.Vector{}),
		FeatureMeta: meta,
	}
}

// Entry is the flat record used by files that keep functions and features in
// one list, flagging features with isFeature.
type Entry struct {
	ID                   string          `json:"id" yaml:"id" toml:"id"`
	Name                 string          `json:"name" yaml:"name" toml:"name"`
	Resources            resource.Vector `json:"resources" yaml:"resources" toml:"resources"`
	IsFeature            bool            `json:"isFeature,omitempty" yaml:"isFeature,omitempty" toml:"isFeature,omitempty"`
	Description          string          `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Category             Category        `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	MandatoryFunctionIDs []string        `json:"mandatoryFunctionIds,omitempty" yaml:"mandatoryFunctionIds,omitempty" toml:"mandatoryFunctionIds,omitempty"`
	MandatorySensorIDs   []string        `json:"mandatorySensorIds,omitempty" yaml:"mandatorySensorIds,omitempty" toml:"mandatorySensorIds,omitempty"`
}

// LooksLikeFeature reports whether e describes a feature: either flagged, or
// carrying feature-only fields.
func (e Entry) LooksLikeFeature() bool {
	return e.IsFeature || e.Category != "" || len(e.MandatoryFunctionIDs) > 0 || len(e.MandatorySensorIDs) > 0
}

// Component returns the id, name and resources of e.
func (e Entry) Component() Component {
	return Component{ID: e.ID, Name: e.Name, Resources: e.Resources}
}

// Feature converts e into a Feature, dropping any resources it carries.
func (e Entry) Feature() Feature {
	return NewFeature(e.ID, e.Name, FeatureMeta{
		Description:          e.Description,
		Category:             e.Category,
		MandatoryFunctionIDs: e.MandatoryFunctionIDs,
		MandatorySensorIDs:   e.MandatorySensorIDs,
	})
}

// SplitEntries separates a mixed list into functions and features, keeping
// the relative order of each.
func SplitEntries(entries []Entry) ([]Function, []Feature) {
	var fns []Function
	var feats []Feature
	for _, e := range entries {
		if e.LooksLikeFeature() {
			feats = append(feats, e.Feature())
			continue
		}
		fns = append(fns, Function{e.Component()})
	}
	return fns, feats
}

// JoinEntries is the inverse of SplitEntries: functions first, then
// features flagged with isFeature.
func JoinEntries(fns []Function, feats []Feature) []Entry {
	out := make([]Entry, 0, len(fns)+len(feats))
	for _, f := range fns {
		out = append(out, FunctionEntry(f))
	}
	for _, f := range feats {
		out = append(out, FeatureEntry(f))
	}
	return out
}

// FunctionEntry flattens a function (or sensor component) into an Entry.
func FunctionEntry(f Function) Entry {
	return Entry{ID: f.ID, Name: f.Name, Resources: f.Resources}
}

// FeatureEntry flattens a feature into an Entry.
func FeatureEntry(f Feature) Entry {
	return Entry{
		ID:                   f.ID,
		Name:                 f.Name,
		IsFeature:            true,
		Description:          f.Description,
		Category:             f.Category,
		MandatoryFunctionIDs: f.MandatoryFunctionIDs,
		MandatorySensorIDs:   f.MandatorySensorIDs,
	}
}

package catalog

import (
	"fmt"
	"strings"

	"github.com/kamusis/socsel/internal/resource"
)

// Severity classifies an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding from Validate or Sanitize.
type Issue struct {
	Severity Severity `json:"severity"`
	Kind     string   `json:"kind"` // "function", "sensor", "feature", "soc", "selection"
	ID       string   `json:"id"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Kind, i.ID, i.Message)
}

// Validate inspects s without changing it. Dangling references are reported
// as warnings since the resolver tolerates them; everything else that makes
// the catalog ambiguous is an error.
func Validate(s *State) []Issue {
	var out []Issue

	fns := make([]Component, len(s.Functions))
	for i, f := range s.Functions {
		fns[i] = f.Component
	}
	sns := make([]Component, len(s.Sensors))
	for i, sn := range s.Sensors {
		sns[i] = sn.Component
	}
	out = append(out, checkComponents("function", fns)...)
	out = append(out, checkComponents("sensor", sns)...)

	seen := map[string]bool{}
	for _, f := range s.Features {
		if f.ID == "" {
			out = append(out, Issue{SeverityError, "feature", f.Name, "missing id"})
		} else if seen[f.ID] {
			out = append(out, Issue{SeverityError, "feature", f.ID, "duplicate id"})
		}
		seen[f.ID] = true

		if _, err := ParseCategory(string(f.Category)); err != nil {
			out = append(out, Issue{SeverityError, "feature", f.ID, fmt.Sprintf("unknown category %q", f.Category)})
		}
		if !f.Resources.IsZero() {
			out = append(out, Issue{SeverityWarning, "feature", f.ID, "own resources are ignored; cost comes from mandatory functions and sensors"})
		}
		if len(f.MandatoryFunctionIDs) == 0 && len(f.MandatorySensorIDs) == 0 {
			out = append(out, Issue{SeverityWarning, "feature", f.ID, "no mandatory functions or sensors; it adds no load"})
		}
		for _, id := range f.MandatoryFunctionIDs {
			if _, ok := s.FunctionByID(id); !ok {
				out = append(out, Issue{SeverityWarning, "feature", f.ID, fmt.Sprintf("references unknown function %s", id)})
			}
		}
		for _, id := range f.MandatorySensorIDs {
			if _, ok := s.SensorByID(id); !ok {
				out = append(out, Issue{SeverityWarning, "feature", f.ID, fmt.Sprintf("references unknown sensor %s", id)})
			}
		}
	}

	seen = map[string]bool{}
	for _, soc := range s.SoCs {
		if soc.ID == "" {
			out = append(out, Issue{SeverityError, "soc", soc.Name, "missing id"})
		} else if seen[soc.ID] {
			out = append(out, Issue{SeverityError, "soc", soc.ID, "duplicate id"})
		}
		seen[soc.ID] = true

		if _, err := ParseTier(string(soc.Tier)); err != nil {
			out = append(out, Issue{SeverityError, "soc", soc.ID, fmt.Sprintf("unknown tier %q", soc.Tier)})
		}
		if axes := negativeAxes(soc.Resources); len(axes) > 0 {
			out = append(out, Issue{SeverityError, "soc", soc.ID, "negative capacity on " + axisList(axes)})
		}
	}

	for _, id := range s.Selection.IDs() {
		if _, ok := s.FeatureByID(id); !ok {
			out = append(out, Issue{SeverityWarning, "selection", id, "selected id is not a known feature"})
		}
	}
	return out
}

// Sanitize repairs what can be repaired at ingestion: negative axes are
// clamped to 0, blank ids are generated and feature resources are zeroed.
// Each repair is reported.
func Sanitize(s *State) []Issue {
	var out []Issue
	for i := range s.Functions {
		out = append(out, sanitizeComponent("function", "new-function", &s.Functions[i].Component)...)
	}
	for i := range s.Sensors {
		out = append(out, sanitizeComponent("sensor", "new-sensor", &s.Sensors[i].Component)...)
	}
	for i := range s.Features {
		f := &s.Features[i]
		if strings.TrimSpace(f.ID) == "" {
			f.ID = NewID("feat-custom")
			out = append(out, Issue{SeverityWarning, "feature", f.ID, "blank id replaced"})
		}
		if !f.Resources.IsZero() {
			f.Resources = resource.Vector{}
			out = append(out, Issue{SeverityWarning, "feature", f.ID, "own resources cleared"})
		}
	}
	for i := range s.SoCs {
		soc := &s.SoCs[i]
		if strings.TrimSpace(soc.ID) == "" {
			soc.ID = NewID("new-soc")
			out = append(out, Issue{SeverityWarning, "soc", soc.ID, "blank id replaced"})
		}
		var clamped []resource.Axis
		if soc.Resources, clamped = soc.Resources.Clamp(); len(clamped) > 0 {
			out = append(out, Issue{SeverityWarning, "soc", soc.ID, "negative capacity clamped to 0 on " + axisList(clamped)})
		}
	}
	if s.Selection == nil {
		s.Selection = NewSelection()
	}
	return out
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func checkComponents(kind string, items []Component) []Issue {
	var out []Issue
	seen := map[string]bool{}
	for _, c := range items {
		if c.ID == "" {
			out = append(out, Issue{SeverityError, kind, c.Name, "missing id"})
		} else if seen[c.ID] {
			out = append(out, Issue{SeverityError, kind, c.ID, "duplicate id"})
		}
		seen[c.ID] = true
		if axes := negativeAxes(c.Resources); len(axes) > 0 {
			out = append(out, Issue{SeverityError, kind, c.ID, "negative cost on " + axisList(axes)})
		}
	}
	return out
}

func sanitizeComponent(kind, prefix string, c *Component) []Issue {
	var out []Issue
	if strings.TrimSpace(c.ID) == "" {
		c.ID = NewID(prefix)
		out = append(out, Issue{SeverityWarning, kind, c.ID, "blank id replaced"})
	}
	var clamped []resource.Axis
	if c.Resources, clamped = c.Resources.Clamp(); len(clamped) > 0 {
		out = append(out, Issue{SeverityWarning, kind, c.ID, "negative cost clamped to 0 on " + axisList(clamped)})
	}
	return out
}

func negativeAxes(v resource.Vector) []resource.Axis {
	var out []resource.Axis
	for _, a := range resource.Axes() {
		if v.Get(a) < 0 {
			out = append(out, a)
		}
	}
	return out
}

func axisList(axes []resource.Axis) string {
	keys := make([]string, len(axes))
	for i, a := range axes {
		keys[i] = a.Key()
	}
	return strings.Join(keys, ", ")
}

// Package resolver expands a feature selection into the functions and
// sensors it mandates and the total resource load they impose.
package resolver

import (
	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/resource"
)

// Requirements is the resolved load of a selection.
type Requirements struct {
	Features           []catalog.Feature  `json:"features"`
	MandatoryFunctions []catalog.Function `json:"mandatoryFunctions"`
	MandatorySensors   []catalog.Sensor   `json:"mandatorySensors"`
	TotalResources     resource.Vector    `json:"totalResources"`
}

// IsEmpty reports whether the selection resolved to no components at all.
func (r Requirements) IsEmpty() bool {
	return len(r.MandatoryFunctions) == 0 && len(r.MandatorySensors) == 0
}

// Resolve computes the requirements of sel.
//
// Selected ids missing from features contribute nothing. Function and sensor
// ids are collected as sets across all selected features, so a component
// shared by several features is counted once, and are looked up only in
// their own catalog; ids that do not resolve are dropped. Every output list
// follows catalog order, and a feature's own resources are never added.
// The inputs are not modified. The lists are never nil, so an empty
// selection encodes as empty JSON arrays.
func Resolve(sel catalog.Selection, features []catalog.Feature, functions []catalog.Function, sensors []catalog.Sensor) Requirements {
	req := Requirements{
		Features:           []catalog.Feature{},
		MandatoryFunctions: []catalog.Function{},
		MandatorySensors:   []catalog.Sensor{},
	}

	fnIDs := map[string]struct{}{}
	snIDs := map[string]struct{}{}
	seenFeature := map[string]bool{}
	for _, f := range features {
		if !sel.Has(f.ID) || seenFeature[f.ID] {
			continue
		}
		seenFeature[f.ID] = true
		req.Features = append(req.Features, f)
		for _, id := range f.MandatoryFunctionIDs {
			fnIDs[id] = struct{}{}
		}
		for _, id := range f.MandatorySensorIDs {
			snIDs[id] = struct{}{}
		}
	}

	// First catalog entry wins when an id is duplicated.
	for _, fn := range functions {
		if _, ok := fnIDs[fn.ID]; !ok {
			continue
		}
		delete(fnIDs, fn.ID)
		req.MandatoryFunctions = append(req.MandatoryFunctions, fn)
		req.TotalResources = req.TotalResources.Add(fn.Resources)
	}
	for _, sn := range sensors {
		if _, ok := snIDs[sn.ID]; !ok {
			continue
		}
		delete(snIDs, sn.ID)
		req.MandatorySensors = append(req.MandatorySensors, sn)
		req.TotalResources = req.TotalResources.Add(sn.Resources)
	}
	return req
}

// ResolveState is Resolve over the catalogs and selection held in s.
func ResolveState(s *catalog.State) Requirements {
	return Resolve(s.Selection, s.Features, s.Functions, s.Sensors)
}

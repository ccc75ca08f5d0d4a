// Package search provides keyword lookup across every catalog of a state.
package search

import (
	"strings"

	"github.com/kamusis/socsel/internal/catalog"
)

// Docs flattens the catalogs of s into searchable documents.
func Docs(s *catalog.State) []Doc {
	out := make([]Doc, 0, len(s.Features)+len(s.Functions)+len(s.Sensors)+len(s.SoCs))
	for _, f := range s.Features {
		keywords := []string{string(f.Category)}
		keywords = append(keywords, f.MandatoryFunctionIDs...)
		keywords = append(keywords, f.MandatorySensorIDs...)
		out = append(out, Doc{
			Kind:        KindFeature,
			ID:          f.ID,
			Name:        f.Name,
			Description: f.Description,
			Keywords:    strings.Join(keywords, " "),
		})
	}
	for _, fn := range s.Functions {
		out = append(out, Doc{Kind: KindFunction, ID: fn.ID, Name: fn.Name})
	}
	for _, sn := range s.Sensors {
		out = append(out, Doc{Kind: KindSensor, ID: sn.ID, Name: sn.Name})
	}
	for _, soc := range s.SoCs {
		out = append(out, Doc{Kind: KindSoC, ID: soc.ID, Name: soc.Name, Keywords: soc.Vendor + " " + string(soc.Tier)})
	}
	return out
}

// Package matcher filters an SoC portfolio down to the parts that can host a
// resource requirement and picks the smallest of them.
package matcher

import (
	"cmp"
	"slices"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/resource"
)

// Result is the outcome of Match. BestFit is nil when nothing is suitable;
// that is an ordinary outcome, not an error.
type Result struct {
	Suitable []catalog.SoC `json:"suitable"`
	BestFit  *catalog.SoC  `json:"bestFit"`
}

// Candidate describes how one SoC fares against a requirement.
type Candidate struct {
	SoC        catalog.SoC     `json:"soc"`
	Score      float64         `json:"score"`
	Suitable   bool            `json:"suitable"`
	Shortfalls []resource.Axis `json:"shortfalls,omitempty"`
}

// Score is the capacity score used for ranking: the plain sum of all axes.
func Score(soc catalog.SoC) float64 {
	return soc.Resources.Score()
}

// Suitable reports whether soc meets required on every axis.
func Suitable(required resource.Vector, soc catalog.SoC) bool {
	return soc.Resources.Covers(required)
}

// Shortfalls lists the axes on which soc cannot meet required.
func Shortfalls(required resource.Vector, soc catalog.SoC) []resource.Axis {
	return soc.Resources.Shortfalls(required)
}

// Match keeps the SoCs whose capacity covers required on every axis and sorts
// them by ascending capacity score, so the first entry is the smallest part
// that still fits. Equal scores keep their input order. socs is not modified.
func Match(required resource.Vector, socs []catalog.SoC) Result {
	suitable := make([]catalog.SoC, 0, len(socs))
	for _, soc := range socs {
		if Suitable(required, soc) {
			suitable = append(suitable, soc)
		}
	}
	slices.SortStableFunc(suitable, func(a, b catalog.SoC) int {
		return cmp.Compare(Score(a), Score(b))
	})

	res := Result{Suitable: suitable}
	if len(suitable) > 0 {
		best := suitable[0]
		res.BestFit = &best
	}
	return res
}

// Rank evaluates every SoC against required: suitable parts first in Match
// order, then the rest by ascending number of shortfalls and score.
func Rank(required resource.Vector, socs []catalog.SoC) []Candidate {
	out := make([]Candidate, 0, len(socs))
	for _, soc := range socs {
		short := Shortfalls(required, soc)
		out = append(out, Candidate{
			SoC:        soc,
			Score:      Score(soc),
			Suitable:   len(short) == 0,
			Shortfalls: short,
		})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if a.Suitable != b.Suitable {
			if a.Suitable {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(len(a.Shortfalls), len(b.Shortfalls)); c != 0 {
			return c
		}
		return cmp.Compare(a.Score, b.Score)
	})
	return out
}

package portfolio

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kamusis/socsel/internal/catalog"
)

// Mode controls how an imported portfolio combines with the current catalog.
type Mode string

const (
	// ModeReplace swaps the whole catalog for the imported one.
	ModeReplace Mode = "replace"
	// ModeMerge adds new ids, skips identical entries and reports entries
	// whose content differs as conflicts.
	ModeMerge Mode = "merge"
)

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeReplace:
		return ModeReplace, nil
	case ModeMerge:
		return ModeMerge, nil
	}
	return "", fmt.Errorf("unknown import mode %q (want replace or merge)", s)
}

// Options tunes Apply.
type Options struct {
	Mode Mode
	// Overwrite resolves merge conflicts in favour of the incoming entry.
	Overwrite bool
}

// Conflict records an incoming entry whose id exists with different content.
type Conflict struct {
	Kind     string
	ID       string
	Existing string // md5 of the stored entry
	Incoming string // md5 of the imported entry
}

// Result summarises an Apply.
type Result struct {
	Added     int
	Replaced  int
	Skipped   int // identical to what is stored
	Conflicts []Conflict
	Repairs   []catalog.Issue
	Functions int // functions split out of a features import
	Features  int
}

// Apply merges b into s according to opts. Incoming entries are sanitised
// first; the repairs are reported in Result.Repairs.
func Apply(s *catalog.State, b *Batch, opts Options) (*Result, error) {
	if opts.Mode == "" {
		opts.Mode = ModeReplace
	}
	res := &Result{}

	// Sanitise the incoming catalog in isolation.
	in := &catalog.State{}
	switch b.Kind {
	case KindSoCs:
		in.SoCs = append([]catalog.SoC{}, b.SoCs...)
	case KindSensors:
		for _, e := range b.Entries {
			in.Sensors = append(in.Sensors, catalog.Sensor{Component: e.Component()})
		}
	case KindFunctions:
		for _, e := range b.Entries {
			in.Functions = append(in.Functions, catalog.Function{Component: e.Component()})
		}
	case KindFeatures:
		in.Functions, in.Features = catalog.SplitEntries(b.Entries)
		res.Functions, res.Features = len(in.Functions), len(in.Features)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, b.Kind)
	}
	res.Repairs = catalog.Sanitize(in)

	if opts.Mode == ModeReplace {
		switch b.Kind {
		case KindSoCs:
			s.SoCs = in.SoCs
		case KindSensors:
			s.Sensors = in.Sensors
		case KindFunctions:
			s.Functions = in.Functions
		case KindFeatures:
			s.Functions, s.Features = in.Functions, in.Features
		}
		res.Replaced = b.Len()
		return res, nil
	}

	switch b.Kind {
	case KindSoCs:
		s.SoCs = merge(s.SoCs, in.SoCs, "soc", func(x catalog.SoC) string { return x.ID }, opts.Overwrite, res)
	case KindSensors:
		s.Sensors = merge(s.Sensors, in.Sensors, "sensor", func(x catalog.Sensor) string { return x.ID }, opts.Overwrite, res)
	case KindFunctions, KindFeatures:
		s.Functions = merge(s.Functions, in.Functions, "function", func(x catalog.Function) string { return x.ID }, opts.Overwrite, res)
		s.Features = merge(s.Features, in.Features, "feature", func(x catalog.Feature) string { return x.ID }, opts.Overwrite, res)
	}
	return res, nil
}

// merge folds incoming into existing by id. Identical entries are skipped;
// differing ones are conflicts, replaced only when overwrite is set. The
// existing slice is not modified in place.
func merge[T any](existing, incoming []T, kind string, id func(T) string, overwrite bool, res *Result) []T {
	out := append([]T(nil), existing...)
	index := make(map[string]int, len(out))
	for i, x := range out {
		if _, dup := index[id(x)]; !dup {
			index[id(x)] = i
		}
	}
	for _, x := range incoming {
		i, ok := index[id(x)]
		if !ok {
			index[id(x)] = len(out)
			out = append(out, x)
			res.Added++
			continue
		}
		have, want := fingerprint(out[i]), fingerprint(x)
		if have == want {
			res.Skipped++
			continue
		}
		res.Conflicts = append(res.Conflicts, Conflict{Kind: kind, ID: id(x), Existing: have, Incoming: want})
		if overwrite {
			out[i] = x
			res.Replaced++
		}
	}
	return out
}

// fingerprint is the md5 of an entry's canonical JSON form. Empty and
// missing id lists hash the same.
func fingerprint(v any) string {
	if f, ok := v.(catalog.Feature); ok {
		if f.MandatoryFunctionIDs == nil {
			f.MandatoryFunctionIDs = []string{}
		}
		if f.MandatorySensorIDs == nil {
			f.MandatorySensorIDs = []string{}
		}
		v = f
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", md5.Sum(data))
}

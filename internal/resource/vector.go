// Package resource defines the six-axis resource vector shared by every
// component in the catalog and the arithmetic the selector performs on it.
package resource

import (
	"fmt"
	"strings"
)

// Axis identifies one dimension of a Vector.
type Axis int

const (
	KDMIPS Axis = iota // CPU throughput
	TOPS               // AI/ML throughput
	ISP                // image signal processing
	Dewarp             // dewarping
	GPU                // GPU visualisation
	DRAMBW             // DRAM bandwidth
)

type axisInfo struct {
	key  string
	name string
	unit string
}

var axisTable = [...]axisInfo{
	KDMIPS: {key: "kDMIPS", name: "CPU", unit: "kDMIPS"},
	TOPS:   {key: "tops", name: "AI/ML", unit: "TOPs"},
	ISP:    {key: "isp", name: "ISP", unit: "MP/s"},
	Dewarp: {key: "dewarp", name: "Dewarp", unit: "MP/s"},
	GPU:    {key: "gpu", name: "GPU", unit: "GFLOPS"},
	DRAMBW: {key: "dramBw", name: "DRAM BW", unit: "GB/s"},
}

// Axes returns every axis in display order.
func Axes() []Axis {
	return []Axis{KDMIPS, TOPS, ISP, Dewarp, GPU, DRAMBW}
}

// Key is the field name used in files and APIs, e.g. "dramBw".
func (a Axis) Key() string { return axisTable[a].key }

// Name is the short human label, e.g. "DRAM BW".
func (a Axis) Name() string { return axisTable[a].name }

// Unit is the physical unit the axis is expressed in.
func (a Axis) Unit() string { return axisTable[a].unit }

// Label renders "Name (Unit)".
func (a Axis) Label() string { return fmt.Sprintf("%s (%s)", a.Name(), a.Unit()) }

func (a Axis) String() string { return a.Key() }

// MarshalText encodes the axis as its key.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.Key()), nil }

// UnmarshalText accepts anything ParseAxis does.
func (a *Axis) UnmarshalText(b []byte) error {
	v, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAxis resolves an axis from its key or name, case-insensitively.
func ParseAxis(s string) (Axis, error) {
	s = strings.TrimSpace(s)
	for _, a := range Axes() {
		if strings.EqualFold(s, a.Key()) || strings.EqualFold(s, a.Name()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown resource axis %q", s)
}

// Vector is a capacity or requirement across all six axes. The zero value is
// the all-zero vector; axes missing from decoded input stay 0.
type Vector struct {
	KDMIPS float64 `json:"kDMIPS" yaml:"kDMIPS" toml:"kDMIPS"`
	TOPS   float64 `json:"tops" yaml:"tops" toml:"tops"`
	ISP    float64 `json:"isp" yaml:"isp" toml:"isp"`
	Dewarp float64 `json:"dewarp" yaml:"dewarp" toml:"dewarp"`
	GPU    float64 `json:"gpu" yaml:"gpu" toml:"gpu"`
	DRAMBW float64 `json:"dramBw" yaml:"dramBw" toml:"dramBw"`
}

// Get returns the value on axis a.
func (v Vector) Get(a Axis) float64 {
	switch a {
	case KDMIPS:
		return v.KDMIPS
	case TOPS:
		return v.TOPS
	case ISP:
		return v.ISP
	case Dewarp:
		return v.Dewarp
	case GPU:
		return v.GPU
	case DRAMBW:
		return v.DRAMBW
	}
	return 0
}

// Set assigns x to axis a.
func (v *Vector) Set(a Axis, x float64) {
	switch a {
	case KDMIPS:
		v.KDMIPS = x
	case TOPS:
		v.TOPS = x
	case ISP:
		v.ISP = x
	case Dewarp:
		v.Dewarp = x
	case GPU:
		v.GPU = x
	case DRAMBW:
		v.DRAMBW = x
	}
}

// Add returns the pairwise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	var out Vector
	for _, a := range Axes() {
		out.Set(a, v.Get(a)+o.Get(a))
	}
	return out
}

// Covers reports whether v >= required on every axis.
func (v Vector) Covers(required Vector) bool {
	for _, a := range Axes() {
		if v.Get(a) < required.Get(a) {
			return false
		}
	}
	return true
}

// Shortfalls lists the axes on which v falls below required.
func (v Vector) Shortfalls(required Vector) []Axis {
	var out []Axis
	for _, a := range Axes() {
		if v.Get(a) < required.Get(a) {
			out = append(out, a)
		}
	}
	return out
}

// Score is the unweighted sum of all axes. Units differ per axis, so the
// value only makes sense for ordering vectors against each other.
func (v Vector) Score() float64 {
	var sum float64
	for _, a := range Axes() {
		sum += v.Get(a)
	}
	return sum
}

// IsZero reports whether every axis is 0.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Clamp returns v with negative axes raised to 0, plus the axes it touched.
func (v Vector) Clamp() (Vector, []Axis) {
	var clamped []Axis
	for _, a := range Axes() {
		if v.Get(a) < 0 {
			v.Set(a, 0)
			clamped = append(clamped, a)
		}
	}
	return v, clamped
}

// Sum adds vs starting from the zero vector.
func Sum(vs ...Vector) Vector {
	var total Vector
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}

package resource

import (
	"math"
	"testing"
)

func TestVector_AddAndScore(t *testing.T) {
	a := Vector{KDMIPS: 10, TOPS: 1, DRAMBW: 0.5}
	b := Vector{KDMIPS: 5, ISP: 500, Dewarp: 500, DRAMBW: 1}

	sum := a.Add(b)
	want := Vector{KDMIPS: 15, TOPS: 1, ISP: 500, Dewarp: 500, DRAMBW: 1.5}
	if sum != want {
		t.Fatalf("Add: got %+v want %+v", sum, want)
	}
	if got := sum.Score(); got != 1017.5 {
		t.Fatalf("Score: got %v want 1017.5", got)
	}
	if (Vector{}).Score() != 0 {
		t.Fatalf("zero vector must score 0")
	}
}

func TestVector_Covers(t *testing.T) {
	soc := Vector{KDMIPS: 50, TOPS: 5, ISP: 1500, Dewarp: 500, GPU: 100, DRAMBW: 8}

	cases := []struct {
		name     string
		required Vector
		want     bool
	}{
		{"zero requirement", Vector{}, true},
		{"equal on every axis", soc, true},
		{"single axis over", Vector{KDMIPS: 60}, false},
		{"fractional axis over", Vector{DRAMBW: 8.01}, false},
		{"below everywhere", Vector{KDMIPS: 49, TOPS: 4.9, DRAMBW: 7}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := soc.Covers(tc.required); got != tc.want {
				t.Fatalf("Covers(%+v) = %v, want %v", tc.required, got, tc.want)
			}
		})
	}
}

func TestVector_Shortfalls(t *testing.T) {
	soc := Vector{KDMIPS: 50, TOPS: 5}
	got := soc.Shortfalls(Vector{KDMIPS: 60, TOPS: 5, GPU: 1})
	if len(got) != 2 || got[0] != KDMIPS || got[1] != GPU {
		t.Fatalf("unexpected shortfalls: %v", got)
	}
}

func TestVector_GetSetRoundTrip(t *testing.T) {
	var v Vector
	for i, a := range Axes() {
		v.Set(a, float64(i+1))
	}
	for i, a := range Axes() {
		if v.Get(a) != float64(i+1) {
			t.Fatalf("axis %s: got %v", a, v.Get(a))
		}
	}
}

func TestVector_Clamp(t *testing.T) {
	v, touched := Vector{KDMIPS: -1, GPU: 3, DRAMBW: -0.2}.Clamp()
	if v.KDMIPS != 0 || v.DRAMBW != 0 || v.GPU != 3 {
		t.Fatalf("unexpected clamp result: %+v", v)
	}
	if len(touched) != 2 {
		t.Fatalf("expected 2 clamped axes, got %v", touched)
	}
}

func TestParseAxis(t *testing.T) {
	for _, s := range []string{"dramBw", "DRAMBW", "dram bw", "kdmips", "AI/ML"} {
		if _, err := ParseAxis(s); err != nil {
			t.Fatalf("ParseAxis(%q): %v", s, err)
		}
	}
	if _, err := ParseAxis("watts"); err == nil {
		t.Fatalf("expected error for unknown axis")
	}
}

func TestUtilization(t *testing.T) {
	cases := []struct {
		req, avail, want float64
	}{
		{60, 50, 120},
		{25, 100, 25},
		{0, 0, 0},
		{5, 0, 0},
	}
	for _, tc := range cases {
		got := Utilization(tc.req, tc.avail)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Utilization(%v, %v) = %v, want %v", tc.req, tc.avail, got, tc.want)
		}
	}
}

func TestUtilizationLevel(t *testing.T) {
	cases := map[float64]Level{
		0:     LevelOK,
		75:    LevelOK,
		75.1:  LevelElevated,
		90.5:  LevelHigh,
		100:   LevelHigh,
		100.1: LevelOver,
	}
	for pct, want := range cases {
		if got := UtilizationLevel(pct); got != want {
			t.Fatalf("UtilizationLevel(%v) = %v, want %v", pct, got, want)
		}
	}
}

func TestCompare(t *testing.T) {
	rows := Compare(Vector{KDMIPS: 60}, Vector{KDMIPS: 50, GPU: 100})
	if len(rows) != len(Axes()) {
		t.Fatalf("expected a row per axis, got %d", len(rows))
	}
	if rows[0].Axis != KDMIPS || rows[0].Percent != 120 || rows[0].Level != LevelOver {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[4].Percent != 0 {
		t.Fatalf("unrequired axis should be 0%%, got %v", rows[4].Percent)
	}
}

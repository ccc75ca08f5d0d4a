package resource

// Level buckets a utilisation percentage for display.
type Level int

const (
	LevelOK       Level = iota // <= 75%
	LevelElevated              // > 75%
	LevelHigh                  // > 90%
	LevelOver                  // > 100%, the part cannot host the load
)

func (l Level) String() string {
	switch l {
	case LevelElevated:
		return "elevated"
	case LevelHigh:
		return "high"
	case LevelOver:
		return "over"
	default:
		return "ok"
	}
}

// Utilization returns required/available as a percentage. Zero capacity
// reports 0% rather than dividing by zero. Values above 100 are kept.
func Utilization(required, available float64) float64 {
	if available > 0 {
		return required / available * 100
	}
	return 0
}

// UtilizationLevel maps a percentage onto its display band.
func UtilizationLevel(pct float64) Level {
	switch {
	case pct > 100:
		return LevelOver
	case pct > 90:
		return LevelHigh
	case pct > 75:
		return LevelElevated
	default:
		return LevelOK
	}
}

// AxisUtilization is one row of a required-vs-available comparison.
type AxisUtilization struct {
	Axis      Axis    `json:"axis"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Percent   float64 `json:"percent"`
	Level     Level   `json:"-"`
}

// Compare builds the per-axis utilisation of available against required.
func Compare(required, available Vector) []AxisUtilization {
	out := make([]AxisUtilization, 0, len(Axes()))
	for _, a := range Axes() {
		pct := Utilization(required.Get(a), available.Get(a))
		out = append(out, AxisUtilization{
			Axis:      a,
			Required:  required.Get(a),
			Available: available.Get(a),
			Percent:   pct,
			Level:     UtilizationLevel(pct),
		})
	}
	return out
}

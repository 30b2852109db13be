package flow

const (
	LaminarLimit   = 2000.0
	TurbulentLimit = 4000.0
)

type Regime int

const (
	Laminar Regime = iota
	Transitional
	Turbulent
)

func (r Regime) String() string {
	switch r {
	case Laminar:
		return "laminar"
	case Transitional:
		return "transitional"
	case Turbulent:
		return "turbulent"
	default:
		return "unknown"
	}
}

// Classify is the single source of regime thresholds.
func Classify(re float64) Regime {
	switch {
	case re <= LaminarLimit:
		return Laminar
	case re >= TurbulentLimit:
		return Turbulent
	default:
		return Transitional
	}
}

// Marker is the overlay shape used when an operating point is drawn on the chart.
type Marker int

const (
	MarkerCircle Marker = iota
	MarkerTriangle
)

func (m Marker) String() string {
	if m == MarkerTriangle {
		return "triangle"
	}
	return "circle"
}

// Symbol is the single-rune glyph for terminal output.
func (m Marker) Symbol() rune {
	if m == MarkerTriangle {
		return '▲'
	}
	return '●'
}

func MarkerFor(re float64) Marker {
	if Classify(re) == Transitional {
		return MarkerTriangle
	}
	return MarkerCircle
}

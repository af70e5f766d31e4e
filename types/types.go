// Package types defines the shared data structures for the duopoly engine.
// This package contains only type definitions and trivial accessors.
package types

// Scenario selects which solving procedure produces the equilibrium point.
type Scenario string

const (
	ScenarioCournot      Scenario = "cournot"
	ScenarioStackelberg1 Scenario = "stackelberg1"
	ScenarioStackelberg2 Scenario = "stackelberg2"
	ScenarioCollusion    Scenario = "collusion"
)

// Scenarios lists every scenario in menu order.
var Scenarios = []Scenario{
	ScenarioCournot,
	ScenarioStackelberg1,
	ScenarioStackelberg2,
	ScenarioCollusion,
}

// Title returns the human-readable scenario name.
func (s Scenario) Title() string {
	switch s {
	case ScenarioCournot:
		return "Cournot"
	case ScenarioStackelberg1:
		return "Stackelberg (Firm 1 leads)"
	case ScenarioStackelberg2:
		return "Stackelberg (Firm 2 leads)"
	case ScenarioCollusion:
		return "Collusion"
	default:
		return string(s)
	}
}

// Valid reports whether s is a known scenario.
func (s Scenario) Valid() bool {
	for _, known := range Scenarios {
		if s == known {
			return true
		}
	}
	return false
}

// Point is a quantity pair in (q1, q2) space.
type Point struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
}

// Equilibrium is an optional quantity pair. Found is false when no
// solution exists; Point is meaningless in that case.
type Equilibrium struct {
	Point
	Found bool `json:"found"`
}

// Series is a named polyline for the plotting surface.
type Series struct {
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

// IsoLine is the set of grid points lying on one iso-profit level.
type IsoLine struct {
	Firm   int     `json:"firm"`
	Level  float64 `json:"level"`
	Points []Point `json:"points"`
}

// Arrow is one step of the cobweb animation.
type Arrow struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Profits holds both firms' profits at a point.
type Profits struct {
	Firm1 float64 `json:"firm1"`
	Firm2 float64 `json:"firm2"`
}

// Frame is everything the plotting surface needs for one redraw.
type Frame struct {
	Title       string      `json:"title"`
	Scenario    Scenario    `json:"scenario"`
	BR1         Series      `json:"br1"`
	BR2         Series      `json:"br2"`
	Equilibrium Equilibrium `json:"equilibrium"`
	Profits     Profits     `json:"profits"`
	IsoLines    []IsoLine   `json:"iso_lines,omitempty"`
	Region      [][]bool    `json:"region,omitempty"` // rows by q2, columns by q1
	Arrows      []Arrow     `json:"arrows,omitempty"`
}

// Command is the parsed representation of a front-end input line.
type Command struct {
	Verb string
	Arg  string // optional, raw remainder of the line
}

// Result is the output of a single engine step.
type Result struct {
	Output  []string
	Redraw  bool // true when the frame changed
	Animate bool // true when the command toggled animation on
}

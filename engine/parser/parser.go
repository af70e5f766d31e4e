// Package parser converts command lines into Command structs.
// Intentionally dumb: no grammar, just aliases and a verb/argument split.
package parser

import (
	"strings"

	"github.com/nathoo/duopoly/types"
)

var verbAliases = map[string]string{
	// Best responses
	"firm1": "br1",
	"f1":    "br1",
	"firm2": "br2",
	"f2":    "br2",

	// Scenario
	"s":    "scenario",
	"mode": "scenario",
	"game": "scenario",

	// Overlays
	"isoprofit": "iso",
	"contours":  "iso",
	"contour":   "iso",
	"lines":     "levels",
	"n":         "levels",
	"coop":      "region",
	"cartel":    "region",
	"gains":     "region",

	// Animation
	"a":       "animate",
	"anim":    "animate",
	"cobweb":  "animate",
	"iterate": "animate",

	// Output
	"p":      "plot",
	"draw":   "plot",
	"redraw": "plot",
	"show":   "plot",
	"eq":     "solve",
	"info":   "explain",
	"why":    "explain",
	"?":      "help",
	"h":      "help",
	"status": "state",
}

// Multi-word phrases that collapse into a single verb and argument.
var phrases = map[string]types.Command{
	"firm 1 leads": {Verb: "scenario", Arg: string(types.ScenarioStackelberg1)},
	"firm 2 leads": {Verb: "scenario", Arg: string(types.ScenarioStackelberg2)},
	"show iso":     {Verb: "iso", Arg: "on"},
	"hide iso":     {Verb: "iso", Arg: "off"},
	"show region":  {Verb: "region", Arg: "on"},
	"hide region":  {Verb: "region", Arg: "off"},
}

var scenarioAliases = map[string]types.Scenario{
	"cournot":      types.ScenarioCournot,
	"c":            types.ScenarioCournot,
	"nash":         types.ScenarioCournot,
	"stackelberg1": types.ScenarioStackelberg1,
	"stackelberg":  types.ScenarioStackelberg1,
	"leader1":      types.ScenarioStackelberg1,
	"l1":           types.ScenarioStackelberg1,
	"s1":           types.ScenarioStackelberg1,
	"stackelberg2": types.ScenarioStackelberg2,
	"leader2":      types.ScenarioStackelberg2,
	"l2":           types.ScenarioStackelberg2,
	"s2":           types.ScenarioStackelberg2,
	"collusion":    types.ScenarioCollusion,
	"cartel":       types.ScenarioCollusion,
	"monopoly":     types.ScenarioCollusion,
	"joint":        types.ScenarioCollusion,
}

// Parse converts a raw input line into a Command. The verb is lowercased
// and de-aliased; the argument keeps its case since formulas may use it.
func Parse(input string) types.Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Command{}
	}

	lower := strings.ToLower(strings.Join(strings.Fields(input), " "))
	if cmd, ok := phrases[lower]; ok {
		return cmd
	}

	verb, arg, _ := strings.Cut(input, " ")
	verb = strings.ToLower(verb)
	arg = strings.TrimSpace(arg)

	// "br1=(100-q2)/2" and "br1: ..." forms.
	if i := strings.IndexAny(verb, "=:"); i > 0 {
		arg = strings.TrimSpace(input[i+1:])
		verb = verb[:i]
	}
	arg = strings.TrimSpace(strings.TrimLeft(arg, "=:"))

	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}

	return types.Command{Verb: verb, Arg: arg}
}

// ParseScenario resolves a scenario name or alias.
func ParseScenario(s string) (types.Scenario, bool) {
	key := normalize(s)
	if sc, ok := scenarioAliases[key]; ok {
		return sc, true
	}
	for _, sc := range types.Scenarios {
		if normalize(sc.Title()) == key {
			return sc, true
		}
	}
	return "", false
}

var punctuation = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "", "_", "")

func normalize(s string) string {
	return punctuation.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ParseToggle interprets on/off style arguments. An empty argument means
// "flip", reported as ok with flip set.
func ParseToggle(arg string) (on, flip, ok bool) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		return false, true, true
	case "on", "yes", "true", "1", "show":
		return true, false, true
	case "off", "no", "false", "0", "hide":
		return false, false, true
	}
	return false, false, false
}
